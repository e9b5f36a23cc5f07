package recorder

import (
	"time"

	"SignalSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCycle(_ *CycleRecord) error               { return nil }
func (n *NoopRecorder) RecordTrade(_ *model.Trade) error               { return nil }
func (n *NoopRecorder) LoadTrades(_ int) ([]model.Trade, error)        { return nil, nil }
func (n *NoopRecorder) TradesSince(_ time.Time) ([]model.Trade, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                   { return nil }
