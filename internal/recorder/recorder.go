package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// CycleRecord holds all data produced by one analysis cycle.
type CycleRecord struct {
	Symbol   string
	Snapshot *model.AnalysisSnapshot
	Report   model.ScoreReport
}

// Recorder persists cycle history and the trade ledger.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	RecordTrade(t *model.Trade) error
	// LoadTrades returns up to limit trades, newest first.
	LoadTrades(limit int) ([]model.Trade, error)
	// TradesSince returns trades at or after since, oldest first.
	TradesSince(since time.Time) ([]model.Trade, error)
	Close() error
}
