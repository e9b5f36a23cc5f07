package collector

import (
	"context"
	"math"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchKlines(_ context.Context, _, interval string, limit int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		return m.Candles, nil
	}
	step, err := time.ParseDuration(interval)
	if err != nil {
		step = time.Hour
	}
	return generateMockCandles(m.Price, limit, step, time.Now().Truncate(step)), nil
}

func (m *MockFetcher) FetchPrice(_ context.Context, _ string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Price, nil
}

// generateMockCandles produces a slow wave around basePrice with a volume
// spike every 25 candles. Prices depend only on the index.
func generateMockCandles(basePrice float64, count int, step time.Duration, end time.Time) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.03*math.Sin(float64(i)/8))
		vol := 1000.0
		if i%25 == 24 {
			vol = 2500
		}
		open := end.Add(-time.Duration(count-i) * step)
		candles[i] = model.Candle{
			OpenTime:  open,
			CloseTime: open.Add(step - time.Millisecond),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    vol,
		}
	}
	return candles
}
