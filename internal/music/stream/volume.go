package stream

import "math"

// ScaleVolume scales samples in place by v (0..1), clipping to int16.
func ScaleVolume(samples []int16, v float64) {
	v = clampVolume(v)
	if v == 1 {
		return
	}
	for i, s := range samples {
		scaled := math.Round(float64(s) * v)
		switch {
		case scaled > math.MaxInt16:
			scaled = math.MaxInt16
		case scaled < math.MinInt16:
			scaled = math.MinInt16
		}
		samples[i] = int16(scaled)
	}
}

func clampVolume(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
