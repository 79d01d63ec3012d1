package backtest

import (
	"TrendScan/internal/domain/models"
	"TrendScan/internal/services/indicators"
)

// Params are the thresholds of one backtest run.
type Params struct {
	WindowSMA          int
	HighCloseThreshold float64
	VolumeMultiplier   float64

	// StrictWarmup suppresses signals on bars where either rolling window
	// is not yet full. With the default (false) behavior, warm-up bars
	// compare against a 0 baseline, which can manufacture signals before
	// enough history exists.
	StrictWarmup bool
}

// Evaluate computes the three rule conditions and their conjunction per bar.
// Comparison strictness matters for reproducing identical signal sets:
// trend and volume use >, high-close uses >=.
func Evaluate(bars []models.Bar, ind models.IndicatorSeries, p Params) models.SignalFlags {
	n := len(bars)
	f := models.SignalFlags{
		StrongTrend: make([]bool, n),
		HighClose:   make([]bool, n),
		HighVolume:  make([]bool, n),
		Signal:      make([]bool, n),
	}
	warmup := p.WindowSMA
	if indicators.AvgVolumeWindow > warmup {
		warmup = indicators.AvgVolumeWindow
	}
	for i, b := range bars {
		f.StrongTrend[i] = b.Close > ind.SMA[i]
		f.HighClose[i] = ind.HighCloseRatio[i] >= p.HighCloseThreshold
		f.HighVolume[i] = ind.VolumeRatio[i] > p.VolumeMultiplier
		f.Signal[i] = f.StrongTrend[i] && f.HighClose[i] && f.HighVolume[i]
		if p.StrictWarmup && i < warmup-1 {
			f.Signal[i] = false
		}
	}
	return f
}
