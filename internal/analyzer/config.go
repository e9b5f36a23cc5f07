package analyzer

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Config holds the indicator periods. It is immutable once built by NewConfig.
type Config struct {
	rsiPeriod    int
	stochPeriod  int
	kPeriod      int
	dPeriod      int
	fisherPeriod int
}

// NewConfig validates the periods and returns an immutable Config.
func NewConfig(rsiPeriod, stochPeriod, kPeriod, dPeriod, fisherPeriod int) (Config, error) {
	c := Config{
		rsiPeriod:    rsiPeriod,
		stochPeriod:  stochPeriod,
		kPeriod:      kPeriod,
		dPeriod:      dPeriod,
		fisherPeriod: fisherPeriod,
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultConfig returns RSI 14, stochastic 14, K 3, D 3, Fisher 9.
func DefaultConfig() Config {
	return Config{rsiPeriod: 14, stochPeriod: 14, kPeriod: 3, dPeriod: 3, fisherPeriod: 9}
}

func (c Config) validate() error {
	switch {
	case c.rsiPeriod < 2:
		return fmt.Errorf("rsi period must be >= 2, got %d: %w", c.rsiPeriod, model.ErrInvalidConfiguration)
	case c.stochPeriod < 1:
		return fmt.Errorf("stochastic period must be positive, got %d: %w", c.stochPeriod, model.ErrInvalidConfiguration)
	case c.kPeriod < 1:
		return fmt.Errorf("K period must be positive, got %d: %w", c.kPeriod, model.ErrInvalidConfiguration)
	case c.dPeriod < 1:
		return fmt.Errorf("D period must be positive, got %d: %w", c.dPeriod, model.ErrInvalidConfiguration)
	case c.fisherPeriod < 1:
		return fmt.Errorf("fisher period must be positive, got %d: %w", c.fisherPeriod, model.ErrInvalidConfiguration)
	}
	return nil
}

func (c Config) RSIPeriod() int        { return c.rsiPeriod }
func (c Config) StochasticPeriod() int { return c.stochPeriod }
func (c Config) KPeriod() int          { return c.kPeriod }
func (c Config) DPeriod() int          { return c.dPeriod }
func (c Config) FisherPeriod() int     { return c.fisherPeriod }

// MinCandles is the hard lower bound on the window length.
// Two %D points additionally need KPeriod+DPeriod-1 more candles.
func (c Config) MinCandles() int { return c.rsiPeriod + c.stochPeriod }
