package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// fisherClamp keeps the normalized price away from ±1 so the log stays finite.
const fisherClamp = 0.9999

// FisherTransform applies the Fisher transform to the latest median price
// positioned inside the trailing `period` high/low range.
// A zero-width range yields 0.
func FisherTransform(highs, lows []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("fisher period %d: %w", period, model.ErrInvalidConfiguration)
	}
	if len(highs) < period || len(lows) < period {
		return 0, fmt.Errorf("fisher transform needs %d highs and lows, got %d/%d: %w",
			period, len(highs), len(lows), model.ErrInsufficientData)
	}

	highest, lowest := HighestLowest(highs, lows, period)
	if highest == lowest {
		return 0, nil
	}

	median := (highs[len(highs)-1] + lows[len(lows)-1]) / 2
	x := 2*((median-lowest)/(highest-lowest)) - 1
	if math.IsNaN(x) {
		return 0, fmt.Errorf("fisher transform over range [%v, %v]: %w", lowest, highest, model.ErrNonFinite)
	}
	x = math.Max(-fisherClamp, math.Min(fisherClamp, x))

	return 0.5 * math.Log((1+x)/(1-x)), nil
}
