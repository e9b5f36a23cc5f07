package strategy

import (
	"math"
	"strings"
)

// FormattedScore is a display form of a 0~10 score.
type FormattedScore struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Stars      string  `json:"stars"`
}

// FormatScore rounds the score to two decimals and renders a five-star bar.
func FormatScore(score float64) FormattedScore {
	filled := int(math.Round(clampScore(score) / 2))
	return FormattedScore{
		Value:      math.Round(score*100) / 100,
		Percentage: math.Round(score/MaxScore*1000) / 10,
		Stars:      strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled),
	}
}
