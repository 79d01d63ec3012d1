package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
)

type fakeProvider struct {
	bars []models.Bar
	err  error

	gotSymbol   string
	gotPeriod   domrepo.Period
	gotInterval domrepo.Interval
}

func (f *fakeProvider) FetchBars(_ context.Context, symbol string, period domrepo.Period, iv domrepo.Interval) ([]models.Bar, error) {
	f.gotSymbol = symbol
	f.gotPeriod = period
	f.gotInterval = iv
	return f.bars, f.err
}

func trendBars(n int) []models.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		close := 100.0 + float64(i)
		vol := 1_000_000.0
		if i == 22 {
			vol = 2_000_000
		}
		bars[i] = models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Symbol:    "TEST",
			Open:      close - 0.5,
			High:      close,
			Low:       close - 1,
			Close:     close,
			Volume:    vol,
		}
	}
	return bars
}

func TestRunBacktestHappyPath(t *testing.T) {
	fp := &fakeProvider{bars: trendBars(25)}
	uc := NewBacktestUseCase(fp, nil)

	res, err := uc.Run(context.Background(), RunBacktestParams{
		Symbol:             "TEST",
		Period:             domrepo.P1y,
		Interval:           domrepo.IV1d,
		WindowSMA:          20,
		HighCloseThreshold: 0.98,
		VolumeMultiplier:   1.5,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fp.gotSymbol != "TEST" || fp.gotPeriod != domrepo.P1y || fp.gotInterval != domrepo.IV1d {
		t.Errorf("provider called with %s/%s/%s", fp.gotSymbol, fp.gotPeriod, fp.gotInterval)
	}
	if res.Bars != 25 {
		t.Errorf("Bars = %d, want 25", res.Bars)
	}
	if res.Summary.TotalSignals != 1 {
		t.Fatalf("TotalSignals = %d, want 1", res.Summary.TotalSignals)
	}
	if res.Summary.SuccessRate != 1.0 {
		t.Errorf("SuccessRate = %v, want 1.0", res.Summary.SuccessRate)
	}
}

func TestRunBacktestParamValidation(t *testing.T) {
	uc := NewBacktestUseCase(&fakeProvider{}, nil)

	cases := []struct {
		name string
		p    RunBacktestParams
	}{
		{"empty symbol", RunBacktestParams{WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5}},
		{"window too small", RunBacktestParams{Symbol: "A", WindowSMA: 9, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5}},
		{"window too large", RunBacktestParams{Symbol: "A", WindowSMA: 51, HighCloseThreshold: 0.98, VolumeMultiplier: 1.5}},
		{"threshold too low", RunBacktestParams{Symbol: "A", WindowSMA: 20, HighCloseThreshold: 0.89, VolumeMultiplier: 1.5}},
		{"threshold too high", RunBacktestParams{Symbol: "A", WindowSMA: 20, HighCloseThreshold: 1.01, VolumeMultiplier: 1.5}},
		{"multiplier too low", RunBacktestParams{Symbol: "A", WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 0.9}},
		{"multiplier too high", RunBacktestParams{Symbol: "A", WindowSMA: 20, HighCloseThreshold: 0.98, VolumeMultiplier: 3.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Run(context.Background(), tc.p); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestRunBacktestDefaultsPeriodAndInterval(t *testing.T) {
	fp := &fakeProvider{bars: trendBars(25)}
	uc := NewBacktestUseCase(fp, nil)

	res, err := uc.Run(context.Background(), RunBacktestParams{
		Symbol:             "TEST",
		Period:             "bogus",
		Interval:           "bogus",
		WindowSMA:          20,
		HighCloseThreshold: 0.98,
		VolumeMultiplier:   1.5,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Period != string(domrepo.DefaultPeriod()) {
		t.Errorf("Period = %s, want default %s", res.Period, domrepo.DefaultPeriod())
	}
	if res.Interval != string(domrepo.DefaultInterval()) {
		t.Errorf("Interval = %s, want default %s", res.Interval, domrepo.DefaultInterval())
	}
}

func TestRunBacktestProviderError(t *testing.T) {
	fp := &fakeProvider{err: fmt.Errorf("upstream down")}
	uc := NewBacktestUseCase(fp, nil)

	_, err := uc.Run(context.Background(), RunBacktestParams{
		Symbol:             "TEST",
		WindowSMA:          20,
		HighCloseThreshold: 0.98,
		VolumeMultiplier:   1.5,
	})
	if err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestRunBacktestNoSource(t *testing.T) {
	uc := NewBacktestUseCase(nil, nil)
	_, err := uc.Run(context.Background(), RunBacktestParams{
		Symbol:             "TEST",
		WindowSMA:          20,
		HighCloseThreshold: 0.98,
		VolumeMultiplier:   1.5,
	})
	if err == nil {
		t.Fatal("expected error when no bar source configured")
	}
}
