package strategy

import "SignalSentinel/internal/model"

// Signal is a per-indicator or overall directional reading used for commentary.
type Signal string

const (
	SignalBuy        Signal = "BUY"
	SignalSell       Signal = "SELL"
	SignalHold       Signal = "HOLD"
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalStrongSell Signal = "STRONG_SELL"
	SignalWeakBuy    Signal = "WEAK_BUY"
	SignalWeakSell   Signal = "WEAK_SELL"
)

// VolumeStrength classifies the volume score.
type VolumeStrength string

const (
	VolumeStrong VolumeStrength = "STRONG"
	VolumeMedium VolumeStrength = "MEDIUM"
	VolumeWeak   VolumeStrength = "WEAK"
)

// OscillatorSignal reads %K below 15 as BUY and above 85 as SELL.
func OscillatorSignal(k float64) Signal {
	switch {
	case k < 15:
		return SignalBuy
	case k > 85:
		return SignalSell
	default:
		return SignalHold
	}
}

// TransformSignal reads the transform at or below -1 as BUY and at or above 1 as SELL.
func TransformSignal(v float64) Signal {
	switch {
	case v <= -1:
		return SignalBuy
	case v >= 1:
		return SignalSell
	default:
		return SignalHold
	}
}

func VolumeSignal(score float64) VolumeStrength {
	switch {
	case score >= 0.6:
		return VolumeStrong
	case score >= 0.4:
		return VolumeMedium
	default:
		return VolumeWeak
	}
}

// OverallSignal combines the three readings. Oscillator and transform must
// agree with non-weak volume for a strong signal.
func OverallSignal(snap *model.AnalysisSnapshot) Signal {
	osc := OscillatorSignal(snap.Oscillator.K)
	tr := TransformSignal(snap.Transform)
	vol := VolumeSignal(snap.VolumeScore)

	switch {
	case osc == SignalBuy && tr == SignalBuy && vol != VolumeWeak:
		return SignalStrongBuy
	case osc == SignalSell && tr == SignalSell && vol != VolumeWeak:
		return SignalStrongSell
	case osc == SignalBuy || tr == SignalBuy:
		return SignalWeakBuy
	case osc == SignalSell || tr == SignalSell:
		return SignalWeakSell
	default:
		return SignalHold
	}
}
