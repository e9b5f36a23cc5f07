// Package analyzer runs the indicator library over a candle window and
// assembles an AnalysisSnapshot. Every call recomputes from the full window;
// nothing is cached between calls.
package analyzer

import (
	"fmt"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

type options struct {
	trace model.TraceFunc
}

// Option customises a single Analyze call.
type Option func(*options)

// WithTracer attaches a hook that receives intermediate values per stage.
// The hook never influences the returned snapshot.
func WithTracer(fn model.TraceFunc) Option {
	return func(o *options) { o.trace = fn }
}

// Analyze computes the oscillator, transform and volume score for candles.
// Any model.ErrInsufficientData from an indicator is returned and no partial
// snapshot is produced.
func Analyze(candles []model.Candle, cfg Config, opts ...Option) (*model.AnalysisSnapshot, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("empty candle window: %w", model.ErrInsufficientData)
	}

	closes := model.Closes(candles)
	highs := model.Highs(candles)
	lows := model.Lows(candles)
	volumes := model.Volumes(candles)
	last := candles[len(candles)-1]

	osc, err := calculator.StochasticRSI(closes, cfg.rsiPeriod, cfg.stochPeriod, cfg.kPeriod, cfg.dPeriod)
	if err != nil {
		return nil, fmt.Errorf("oscillator: %w", err)
	}
	o.emit("oscillator", map[string]float64{
		"k":          osc.K,
		"d":          osc.D,
		"previous_k": osc.PreviousK,
		"candles":    float64(len(closes)),
	})

	fisher, err := calculator.FisherTransform(highs, lows, cfg.fisherPeriod)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	o.emit("transform", map[string]float64{
		"value":  fisher,
		"period": float64(cfg.fisherPeriod),
	})

	volScore := calculator.VolumeScore(volumes, last.Volume)
	o.emit("volume", map[string]float64{
		"score":   volScore,
		"current": last.Volume,
	})

	return &model.AnalysisSnapshot{
		Oscillator:  osc,
		Transform:   fisher,
		VolumeScore: volScore,
		LastPrice:   last.Close,
		LastVolume:  last.Volume,
		ComputedAt:  last.CloseTime,
	}, nil
}

func (o *options) emit(stage string, values map[string]float64) {
	if o.trace != nil {
		o.trace(stage, values)
	}
}
