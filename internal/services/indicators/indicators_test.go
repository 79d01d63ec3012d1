package indicators

import (
	"testing"
	"time"

	"TrendScan/internal/domain/models"
)

func mkBars(closes, highs, volumes []float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range closes {
		bars[i] = models.Bar{
			Timestamp: t0.AddDate(0, 0, i),
			Symbol:    "TSLA",
			Open:      closes[i],
			High:      highs[i],
			Low:       closes[i],
			Close:     closes[i],
			Volume:    volumes[i],
		}
	}
	return bars
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, 20)
	if s.Len() != 0 {
		t.Fatalf("expected empty series, got len %d", s.Len())
	}
}

func TestComputeAlignment(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	bars := mkBars(closes, closes, closes)
	s := Compute(bars, 3)
	if len(s.SMA) != 5 || len(s.AvgVolume) != 5 || len(s.HighCloseRatio) != 5 || len(s.VolumeRatio) != 5 {
		t.Fatalf("series not aligned to input length: %d %d %d %d",
			len(s.SMA), len(s.AvgVolume), len(s.HighCloseRatio), len(s.VolumeRatio))
	}
}

func TestSMAWarmupAndValues(t *testing.T) {
	closes := []float64{10, 20, 30, 40}
	bars := mkBars(closes, closes, closes)
	s := Compute(bars, 3)
	if s.SMA[0] != 0 || s.SMA[1] != 0 {
		t.Fatalf("warm-up positions must be 0, got %v %v", s.SMA[0], s.SMA[1])
	}
	if s.SMA[2] != 20 {
		t.Fatalf("sma[2] = %v, want 20", s.SMA[2])
	}
	if s.SMA[3] != 30 {
		t.Fatalf("sma[3] = %v, want 30", s.SMA[3])
	}
}

func TestAvgVolumeFixedWindow(t *testing.T) {
	n := 25
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}
	bars := mkBars(closes, closes, volumes)
	s := Compute(bars, 10)
	for i := 0; i < AvgVolumeWindow-1; i++ {
		if s.AvgVolume[i] != 0 {
			t.Fatalf("avg volume warm-up at %d = %v, want 0", i, s.AvgVolume[i])
		}
	}
	for i := AvgVolumeWindow - 1; i < n; i++ {
		if s.AvgVolume[i] != 1000 {
			t.Fatalf("avg volume at %d = %v, want 1000", i, s.AvgVolume[i])
		}
	}
}

func TestHighCloseRatioZeroHigh(t *testing.T) {
	closes := []float64{5, 5}
	highs := []float64{10, 0}
	bars := mkBars(closes, highs, closes)
	s := Compute(bars, 10)
	if s.HighCloseRatio[0] != 0.5 {
		t.Fatalf("ratio[0] = %v, want 0.5", s.HighCloseRatio[0])
	}
	if s.HighCloseRatio[1] != 0 {
		t.Fatalf("ratio with zero high must be 0, got %v", s.HighCloseRatio[1])
	}
}

func TestVolumeRatioZeroDuringWarmup(t *testing.T) {
	closes := make([]float64, 5)
	volumes := make([]float64, 5)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 500
	}
	bars := mkBars(closes, closes, volumes)
	s := Compute(bars, 10)
	// avg volume is still in warm-up everywhere, so the ratio denominator
	// is 0 and every position must be substituted.
	for i, v := range s.VolumeRatio {
		if v != 0 {
			t.Fatalf("volume ratio at %d = %v, want 0", i, v)
		}
	}
}
