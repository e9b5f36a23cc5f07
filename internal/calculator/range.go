package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// HighestLowest scans the trailing n highs and lows and returns the extremes.
// Callers guarantee both slices hold at least n points.
func HighestLowest(highs, lows []float64, n int) (highest, lowest float64) {
	highest = math.Inf(-1)
	lowest = math.Inf(1)
	for _, h := range highs[len(highs)-n:] {
		if h > highest {
			highest = h
		}
	}
	for _, l := range lows[len(lows)-n:] {
		if l < lowest {
			lowest = l
		}
	}
	return highest, lowest
}

// rollingRange returns the rolling max and min of values over period.
// Entries before index period-1 are not meaningful.
func rollingRange(values []float64, period int) (maxs, mins []float64) {
	if period < 2 {
		// a single-point window is its own max and min
		return values, values
	}
	return talib.Max(values, period), talib.Min(values, period)
}
