package calculator

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// StochasticRSI computes the smoothed Stochastic RSI oscillator.
//
// The RSI series (Wilder, rsiPeriod) is normalized over a rolling window of
// stochPeriod into 0~100, then smoothed with a kPeriod SMA (%K) and a dPeriod
// SMA of %K (%D). A flat window yields a stochastic value of 0.
// Requires at least rsiPeriod+stochPeriod closes and enough history for two
// %D points; otherwise model.ErrInsufficientData is returned.
func StochasticRSI(closes []float64, rsiPeriod, stochPeriod, kPeriod, dPeriod int) (model.StochRSI, error) {
	if stochPeriod <= 0 || kPeriod <= 0 || dPeriod <= 0 {
		return model.StochRSI{}, fmt.Errorf("stochastic rsi periods %d/%d/%d: %w",
			stochPeriod, kPeriod, dPeriod, model.ErrInvalidConfiguration)
	}
	if len(closes) < rsiPeriod+stochPeriod {
		return model.StochRSI{}, fmt.Errorf("stochastic rsi needs %d closes, got %d: %w",
			rsiPeriod+stochPeriod, len(closes), model.ErrInsufficientData)
	}

	rsi, err := RSISeries(closes, rsiPeriod)
	if err != nil {
		return model.StochRSI{}, err
	}

	stoch := stochastic(rsi, stochPeriod)

	kLine, err := SMASeries(stoch, kPeriod)
	if err != nil {
		return model.StochRSI{}, fmt.Errorf("%%K smoothing: %w", err)
	}
	dLine, err := SMASeries(kLine, dPeriod)
	if err != nil {
		return model.StochRSI{}, fmt.Errorf("%%D smoothing: %w", err)
	}
	if len(dLine) < 2 {
		return model.StochRSI{}, fmt.Errorf("stochastic rsi produced %d smoothed points: %w",
			len(dLine), model.ErrInsufficientData)
	}

	k := kLine[len(kLine)-1]
	prevK := kLine[len(kLine)-2]
	d := dLine[len(dLine)-1]
	if !finite(k, prevK, d) {
		return model.StochRSI{}, fmt.Errorf("stochastic rsi K=%v D=%v: %w", k, d, model.ErrNonFinite)
	}
	trend := model.TrendDown
	if k >= prevK {
		trend = model.TrendUp
	}

	return model.StochRSI{
		K:         k,
		D:         d,
		PreviousK: prevK,
		Trend:     trend,
	}, nil
}

// stochastic maps each RSI point to its position inside the trailing window, scaled to 0~100.
// The result has len(rsi)-period+1 points.
func stochastic(rsi []float64, period int) []float64 {
	if len(rsi) < period {
		return nil
	}
	maxs, mins := rollingRange(rsi, period)
	out := make([]float64, 0, len(rsi)-period+1)
	for i := period - 1; i < len(rsi); i++ {
		rng := maxs[i] - mins[i]
		if rng == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (rsi[i]-mins[i])/rng*100)
	}
	return out
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
