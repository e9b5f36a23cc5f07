package model

import "time"

// Trend is the direction of the latest %K move.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// StochRSI holds the smoothed oscillator output.
type StochRSI struct {
	K         float64 `json:"k"`
	D         float64 `json:"d"`
	PreviousK float64 `json:"previous_k"`
	Trend     Trend   `json:"trend"`
}

// AnalysisSnapshot holds all indicators computed from one candle window.
// A snapshot is produced fresh per analysis and never mutated.
type AnalysisSnapshot struct {
	Oscillator  StochRSI  `json:"oscillator"`
	Transform   float64   `json:"transform"`
	VolumeScore float64   `json:"volume_score"` // 0.0 ~ 1.0
	LastPrice   float64   `json:"last_price"`
	LastVolume  float64   `json:"last_volume"`
	ComputedAt  time.Time `json:"computed_at"`
}

// TraceFunc receives intermediate values of a computation stage.
// Implementations must not retain or modify the map.
type TraceFunc func(stage string, values map[string]float64)
