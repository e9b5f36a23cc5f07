package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"

	talib "github.com/markcheno/go-talib"
)

// RSISeries computes the Wilder-smoothed RSI for every close after the first `period` changes.
// The result has len(closes)-period values, oldest first.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period < 2 {
		return nil, fmt.Errorf("rsi period %d: %w", period, model.ErrInvalidConfiguration)
	}
	if len(closes) <= period {
		return nil, fmt.Errorf("rsi needs more than %d closes, got %d: %w", period, len(closes), model.ErrInsufficientData)
	}
	return talib.Rsi(closes, period)[period:], nil
}
