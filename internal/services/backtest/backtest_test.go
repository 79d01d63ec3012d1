package backtest

import (
	"math"
	"reflect"
	"testing"
	"time"

	"TrendScan/internal/domain/models"
)

func dailyBars(closes, highs, volumes []float64) []models.Bar {
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

// 25 rising closes, flat volume except a 2x spike at bar 22. With the
// default thresholds exactly one signal fires, at bar 22, and its next-bar
// return is positive.
func risingFixture() []models.Bar {
	n := 25
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := 0; i < n; i++ {
		closes[i] = 100 + float64(i)
		volumes[i] = 1_000_000
	}
	volumes[22] = 2_000_000
	return dailyBars(closes, closes, volumes)
}

func defaultParams() Params {
	return Params{WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5}
}

func TestRunRisingScenario(t *testing.T) {
	records, summary := Run(risingFixture(), defaultParams())
	if len(records) != 1 {
		t.Fatalf("expected exactly one signal record, got %d", len(records))
	}
	r := records[0]
	if r.Close != 122 {
		t.Fatalf("signal bar close = %v, want 122", r.Close)
	}
	if r.HighCloseRatio != 1.0 {
		t.Fatalf("high close ratio = %v, want 1.0", r.HighCloseRatio)
	}
	if r.VolumeRatio <= 1.5 {
		t.Fatalf("volume ratio = %v, want > 1.5", r.VolumeRatio)
	}
	if r.NextClose != 123 {
		t.Fatalf("next close = %v, want 123", r.NextClose)
	}
	wantRet := (123.0 - 122.0) / 122.0
	if math.Abs(r.Return-wantRet) > 1e-12 {
		t.Fatalf("return = %v, want %v", r.Return, wantRet)
	}
	if !r.Success {
		t.Fatal("positive return must be a success")
	}
	if summary.TotalSignals != 1 || summary.Successes != 1 {
		t.Fatalf("summary = %+v, want 1 signal / 1 success", summary)
	}
	if summary.SuccessRate != 1.0 {
		t.Fatalf("success rate = %v, want 1.0", summary.SuccessRate)
	}
	if math.Abs(summary.MeanReturn-wantRet) > 1e-12 {
		t.Fatalf("mean return = %v, want %v", summary.MeanReturn, wantRet)
	}
}

func TestRunLastBarNeverRecorded(t *testing.T) {
	bars := risingFixture()
	// move the spike to the last bar: it satisfies the rule but has no
	// next close, so it must be dropped.
	bars[22].Volume = 1_000_000
	bars[24].Volume = 2_000_000
	records, summary := Run(bars, defaultParams())
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if !summary.NoSignals() {
		t.Fatalf("expected no-signals outcome, got %+v", summary)
	}
}

func TestRunNoSignalsOutcome(t *testing.T) {
	n := 30
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1_000_000
	}
	records, summary := Run(dailyBars(closes, closes, volumes), defaultParams())
	if len(records) != 0 || !summary.NoSignals() {
		t.Fatalf("expected empty outcome, got %d records, %+v", len(records), summary)
	}
	if summary.SuccessRate != 0 || summary.MeanReturn != 0 {
		t.Fatalf("empty outcome must be zeroed, got %+v", summary)
	}
}

func TestRunEmptyInput(t *testing.T) {
	records, summary := Run(nil, defaultParams())
	if len(records) != 0 || !summary.NoSignals() {
		t.Fatalf("empty input must yield empty outcome, got %d records", len(records))
	}
}

func TestRunMixedOutcomeAggregation(t *testing.T) {
	n := 30
	closes := make([]float64, n)
	highs := make([]float64, n)
	volumes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
		highs[i] = closes[i]
		volumes[i] = 1_000_000
	}
	// two signal bars: one followed by a gain, one followed by a loss
	volumes[22] = 2_000_000
	volumes[26] = 2_000_000
	closes[27] = closes[26] - 5
	highs[27] = closes[26]
	records, summary := Run(dailyBars(closes, highs, volumes), defaultParams())
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if summary.TotalSignals != 2 || summary.Successes != 1 {
		t.Fatalf("summary = %+v, want 2 signals / 1 success", summary)
	}
	if summary.SuccessRate != 0.5 {
		t.Fatalf("success rate = %v, want 0.5", summary.SuccessRate)
	}
	wantMean := (records[0].Return + records[1].Return) / 2
	if math.Abs(summary.MeanReturn-wantMean) > 1e-12 {
		t.Fatalf("mean return = %v, want %v", summary.MeanReturn, wantMean)
	}
	if !records[0].Timestamp.Before(records[1].Timestamp) {
		t.Fatal("records must stay ordered by timestamp")
	}
}

func TestRunDeterminism(t *testing.T) {
	bars := risingFixture()
	p := defaultParams()
	r1, s1 := Run(bars, p)
	r2, s2 := Run(bars, p)
	if !reflect.DeepEqual(r1, r2) {
		t.Fatal("records differ between identical runs")
	}
	if s1 != s2 {
		t.Fatalf("summaries differ: %+v vs %+v", s1, s2)
	}
}
