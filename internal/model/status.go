package model

import "time"

// BotStatus is a point-in-time view of the running bot.
type BotStatus struct {
	Running       bool              `json:"running"`
	Symbol        string            `json:"symbol"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	LastUpdate    *time.Time        `json:"last_update,omitempty"`
	Uptime        time.Duration     `json:"uptime"`
	CurrentPrice  float64           `json:"current_price"`
	CheckInterval time.Duration     `json:"check_interval"`
	LastSnapshot  *AnalysisSnapshot `json:"last_snapshot,omitempty"`
	LastReport    *ScoreReport      `json:"last_report,omitempty"`
	Wallet        FundState         `json:"wallet"`
	Risk          RiskCheck         `json:"risk"`
}

// CycleEvent is emitted after every successful analysis cycle.
type CycleEvent struct {
	Symbol   string            `json:"symbol"`
	Snapshot *AnalysisSnapshot `json:"snapshot"`
	Report   ScoreReport       `json:"report"`
	Trade    *Trade            `json:"trade,omitempty"`
	At       time.Time         `json:"at"`
}
