package collector

import (
	"context"

	"SignalSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchKlines returns up to limit candles in chronological order.
	FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	FetchPrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}
