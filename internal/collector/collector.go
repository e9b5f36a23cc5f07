package collector

import (
	"context"
	"fmt"

	"SignalSentinel/internal/model"
)

const (
	DefaultInterval = "1h"
	DefaultLimit    = 200
)

// Collector fetches the candle window for one symbol.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
	Limit    int
}

// NewCollector creates a new Collector. Empty interval and non-positive limit
// fall back to 1h and 200.
func NewCollector(fetcher Fetcher, symbol, interval string, limit int) *Collector {
	if interval == "" {
		interval = DefaultInterval
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Collector{Fetcher: fetcher, Symbol: symbol, Interval: interval, Limit: limit}
}

// Collect fetches the latest candle window.
func (c *Collector) Collect(ctx context.Context) ([]model.Candle, error) {
	candles, err := c.Fetcher.FetchKlines(ctx, c.Symbol, c.Interval, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("collect %s %s: %w", c.Symbol, c.Interval, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("collect %s %s: %w", c.Symbol, c.Interval, model.ErrInsufficientData)
	}
	return candles, nil
}

// CurrentPrice fetches the ticker price, used as a connectivity check.
func (c *Collector) CurrentPrice(ctx context.Context) (float64, error) {
	price, err := c.Fetcher.FetchPrice(ctx, c.Symbol)
	if err != nil {
		return 0, fmt.Errorf("price %s: %w", c.Symbol, err)
	}
	return price, nil
}
