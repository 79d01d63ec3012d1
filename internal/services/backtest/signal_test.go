package backtest

import (
	"testing"

	"TrendScan/internal/domain/models"
)

// one-bar fixture with indicator values chosen so each condition can be
// toggled independently.
func evalOne(closeAboveSMA, highClose, highVolume bool) models.SignalFlags {
	bar := models.Bar{Close: 100}
	ind := models.IndicatorSeries{
		SMA:            []float64{90},
		HighCloseRatio: []float64{0.99},
		VolumeRatio:    []float64{2.0},
	}
	if !closeAboveSMA {
		ind.SMA[0] = 110
	}
	if !highClose {
		ind.HighCloseRatio[0] = 0.90
	}
	if !highVolume {
		ind.VolumeRatio[0] = 1.0
	}
	return Evaluate([]models.Bar{bar}, ind, Params{
		WindowSMA:          20,
		HighCloseThreshold: 0.98,
		VolumeMultiplier:   1.5,
	})
}

func TestSignalConjunctionAllCombinations(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		trend := mask&4 != 0
		hc := mask&2 != 0
		hv := mask&1 != 0
		f := evalOne(trend, hc, hv)
		want := trend && hc && hv
		if f.StrongTrend[0] != trend || f.HighClose[0] != hc || f.HighVolume[0] != hv {
			t.Fatalf("combination %03b: conditions evaluated as %v %v %v",
				mask, f.StrongTrend[0], f.HighClose[0], f.HighVolume[0])
		}
		if f.Signal[0] != want {
			t.Fatalf("combination %03b: signal = %v, want %v", mask, f.Signal[0], want)
		}
	}
}

func TestHighCloseThresholdInclusive(t *testing.T) {
	bar := models.Bar{Close: 100}
	ind := models.IndicatorSeries{
		SMA:            []float64{90},
		HighCloseRatio: []float64{0.98},
		VolumeRatio:    []float64{2.0},
	}
	f := Evaluate([]models.Bar{bar}, ind, Params{WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5})
	if !f.HighClose[0] {
		t.Fatal("ratio equal to threshold must satisfy high close (>=)")
	}
}

func TestVolumeMultiplierExclusive(t *testing.T) {
	bar := models.Bar{Close: 100}
	ind := models.IndicatorSeries{
		SMA:            []float64{90},
		HighCloseRatio: []float64{1.0},
		VolumeRatio:    []float64{1.5},
	}
	f := Evaluate([]models.Bar{bar}, ind, Params{WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5})
	if f.HighVolume[0] {
		t.Fatal("ratio equal to multiplier must not satisfy high volume (>)")
	}
}

func TestStrongTrendExclusive(t *testing.T) {
	bar := models.Bar{Close: 100}
	ind := models.IndicatorSeries{
		SMA:            []float64{100},
		HighCloseRatio: []float64{1.0},
		VolumeRatio:    []float64{2.0},
	}
	f := Evaluate([]models.Bar{bar}, ind, Params{WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5})
	if f.StrongTrend[0] {
		t.Fatal("close equal to sma must not satisfy strong trend (>)")
	}
}

func TestStrictWarmupSuppressesEarlySignals(t *testing.T) {
	n := 25
	bars := make([]models.Bar, n)
	ind := models.IndicatorSeries{
		SMA:            make([]float64, n),
		HighCloseRatio: make([]float64, n),
		VolumeRatio:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		bars[i] = models.Bar{Close: 100}
		ind.SMA[i] = 0 // warm-up baseline: close > 0 is trivially true
		ind.HighCloseRatio[i] = 1.0
		ind.VolumeRatio[i] = 2.0
	}
	p := Params{WindowSMA: 10, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5}

	loose := Evaluate(bars, ind, p)
	if !loose.Signal[0] {
		t.Fatal("default mode should allow warm-up signals against the 0 baseline")
	}

	p.StrictWarmup = true
	strict := Evaluate(bars, ind, p)
	// warm-up span is the larger of the two windows (avg volume: 20)
	for i := 0; i < 19; i++ {
		if strict.Signal[i] {
			t.Fatalf("strict mode signal at warm-up position %d", i)
		}
	}
	if !strict.Signal[19] {
		t.Fatal("strict mode must not suppress signals past the warm-up span")
	}
}
