package indicators

import (
	"math"

	"TrendScan/internal/domain/models"
)

// AvgVolumeWindow is the fixed window for the rolling average volume.
const AvgVolumeWindow = 20

// Compute derives the four rolling series from bars with the given SMA
// window. All outputs are aligned 1:1 with the input; an empty input yields
// empty series. Positions before a window is full hold 0 rather than being
// dropped, so downstream comparisons always see a defined value.
func Compute(bars []models.Bar, windowSMA int) models.IndicatorSeries {
	n := len(bars)
	s := models.IndicatorSeries{
		SMA:            make([]float64, n),
		AvgVolume:      make([]float64, n),
		HighCloseRatio: make([]float64, n),
		VolumeRatio:    make([]float64, n),
	}
	if n == 0 {
		return s
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	rollingMean(closes, windowSMA, s.SMA)
	rollingMean(volumes, AvgVolumeWindow, s.AvgVolume)

	for i, b := range bars {
		s.HighCloseRatio[i] = safeRatio(b.Close, b.High)
		s.VolumeRatio[i] = safeRatio(b.Volume, s.AvgVolume[i])
	}
	return s
}

// rollingMean writes the trailing mean over `window` values ending at each
// position into out. Positions with fewer than `window` values available
// stay 0 (warm-up substitution).
func rollingMean(xs []float64, window int, out []float64) {
	if window <= 0 {
		return
	}
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
}

// safeRatio returns num/den with 0 substituted for zero or non-finite
// results, so no NaN or Inf ever reaches the signal comparisons.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
