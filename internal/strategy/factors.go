package strategy

import (
	"math"

	"SignalSentinel/internal/model"
)

// MaxScore is the upper bound of every component and of the weighted total.
const MaxScore = 10

const (
	oversoldK   = 20.0
	overboughtK = 80.0
)

// scoreOscillator rewards BUY when %K <= 20 and SELL when %K >= 80, linearly up to 10.
func scoreOscillator(k float64, action model.Action) float64 {
	switch action {
	case model.ActionBuy:
		if k <= oversoldK {
			return clampScore(MaxScore * (oversoldK - k) / 20)
		}
	case model.ActionSell:
		if k >= overboughtK {
			return clampScore(MaxScore * (k - overboughtK) / 20)
		}
	}
	return 0
}

// scoreTransform rewards BUY below -1 and SELL above 1: 0 at ±1, 10 at ±2 and beyond.
func scoreTransform(v float64, action model.Action) float64 {
	switch action {
	case model.ActionBuy:
		if v <= -1 {
			return clampScore(MaxScore * (math.Abs(v) - 1))
		}
	case model.ActionSell:
		if v >= 1 {
			return clampScore(MaxScore * (v - 1))
		}
	}
	return 0
}

// scoreVolume scales the 0~1 volume score to 0~10. Not action dependent.
func scoreVolume(volumeScore float64) float64 {
	return clampScore(volumeScore * MaxScore)
}

func clampScore(v float64) float64 {
	return math.Min(MaxScore, math.Max(0, v))
}
