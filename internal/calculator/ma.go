package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"

	talib "github.com/markcheno/go-talib"
)

// SMASeries returns the rolling simple moving average of values over period.
// The result has len(values)-period+1 points, oldest first.
func SMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("sma period %d: %w", period, model.ErrInvalidConfiguration)
	}
	if len(values) < period {
		return nil, fmt.Errorf("sma needs %d values, got %d: %w", period, len(values), model.ErrInsufficientData)
	}
	return talib.Sma(values, period)[period-1:], nil
}
