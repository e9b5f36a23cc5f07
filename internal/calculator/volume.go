package calculator

// MinVolumeHistory is the number of volumes needed for a non-neutral score.
const MinVolumeHistory = 20

// NeutralVolumeScore is returned when the volume history is too short.
const NeutralVolumeScore = 0.5

// VolumeScore buckets the ratio of current volume to the mean of volumes into 0~1.
func VolumeScore(volumes []float64, current float64) float64 {
	if len(volumes) < MinVolumeHistory {
		return NeutralVolumeScore
	}

	sum := 0.0
	for _, v := range volumes {
		sum += v
	}
	avg := sum / float64(len(volumes))

	ratio := 0.0
	if avg > 0 {
		ratio = current / avg
	}

	switch {
	case ratio > 2:
		return 1.0
	case ratio > 1.5:
		return 0.8
	case ratio > 1.2:
		return 0.6
	case ratio > 0.8:
		return 0.4
	case ratio > 0.5:
		return 0.2
	default:
		return 0.1
	}
}
