package strategy

import "SignalSentinel/internal/model"

// Score computes the BUY and SELL breakdowns for a snapshot independently.
func Score(snap *model.AnalysisSnapshot, cfg Config) (buy, sell model.ScoreBreakdown) {
	return breakdown(snap, cfg, model.ActionBuy), breakdown(snap, cfg, model.ActionSell)
}

func breakdown(snap *model.AnalysisSnapshot, cfg Config, action model.Action) model.ScoreBreakdown {
	osc := scoreOscillator(snap.Oscillator.K, action)
	tr := scoreTransform(snap.Transform, action)
	vol := scoreVolume(snap.VolumeScore)

	total := osc*cfg.oscillatorWeight + tr*cfg.transformWeight + vol*cfg.volumeWeight

	return model.ScoreBreakdown{
		Oscillator: osc,
		Transform:  tr,
		Volume:     vol,
		Total:      clampScore(total),
	}
}

// Recommend picks BUY or SELL when its total reaches threshold and strictly
// beats the other side; everything else, including ties, is HOLD.
func Recommend(buy, sell model.ScoreBreakdown, threshold float64) model.Recommendation {
	switch {
	case buy.Total >= threshold && buy.Total > sell.Total:
		return model.Recommendation{Action: model.ActionBuy, Score: buy.Total, Confidence: buy.Total / MaxScore}
	case sell.Total >= threshold && sell.Total > buy.Total:
		return model.Recommendation{Action: model.ActionSell, Score: sell.Total, Confidence: sell.Total / MaxScore}
	default:
		best := buy.Total
		if sell.Total > best {
			best = sell.Total
		}
		return model.Recommendation{Action: model.ActionHold, Score: best, Confidence: 0}
	}
}

// Evaluate scores a snapshot and derives the recommendation with the configured threshold.
func Evaluate(snap *model.AnalysisSnapshot, cfg Config) model.ScoreReport {
	buy, sell := Score(snap, cfg)
	return model.ScoreReport{
		Buy:            buy,
		Sell:           sell,
		Recommendation: Recommend(buy, sell, cfg.threshold),
	}
}
