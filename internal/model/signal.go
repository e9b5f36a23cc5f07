package model

// Action is the recommended trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// ScoreBreakdown is the per-factor scoring result for one action.
type ScoreBreakdown struct {
	Oscillator float64 `json:"oscillator"`
	Transform  float64 `json:"transform"`
	Volume     float64 `json:"volume"`
	Total      float64 `json:"total"` // 0 ~ 10
}

// Recommendation is the final decision derived from the BUY and SELL totals.
type Recommendation struct {
	Action     Action  `json:"action"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"` // 0.0 ~ 1.0
}

// ScoreReport bundles both breakdowns with the resulting recommendation.
type ScoreReport struct {
	Buy            ScoreBreakdown `json:"buy"`
	Sell           ScoreBreakdown `json:"sell"`
	Recommendation Recommendation `json:"recommendation"`
}
