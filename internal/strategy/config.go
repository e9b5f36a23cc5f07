package strategy

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// Config holds the factor weights and the decision threshold.
// It is immutable once built by NewConfig.
type Config struct {
	oscillatorWeight float64
	transformWeight  float64
	volumeWeight     float64
	threshold        float64
}

// NewConfig validates weights and threshold. Weights need not sum to 1;
// the total is clamped into [0, MaxScore] regardless.
func NewConfig(oscillatorWeight, transformWeight, volumeWeight, threshold float64) (Config, error) {
	for name, w := range map[string]float64{
		"oscillator": oscillatorWeight,
		"transform":  transformWeight,
		"volume":     volumeWeight,
	} {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return Config{}, fmt.Errorf("%s weight %v: %w", name, w, model.ErrInvalidConfiguration)
		}
	}
	if threshold < 0 || threshold > MaxScore || math.IsNaN(threshold) {
		return Config{}, fmt.Errorf("threshold %v outside [0, %d]: %w", threshold, MaxScore, model.ErrInvalidConfiguration)
	}
	return Config{
		oscillatorWeight: oscillatorWeight,
		transformWeight:  transformWeight,
		volumeWeight:     volumeWeight,
		threshold:        threshold,
	}, nil
}

// DefaultConfig returns weights 0.4/0.4/0.2 and threshold 7.
func DefaultConfig() Config {
	return Config{oscillatorWeight: 0.4, transformWeight: 0.4, volumeWeight: 0.2, threshold: 7}
}

func (c Config) OscillatorWeight() float64 { return c.oscillatorWeight }
func (c Config) TransformWeight() float64  { return c.transformWeight }
func (c Config) VolumeWeight() float64     { return c.volumeWeight }
func (c Config) Threshold() float64        { return c.threshold }
