package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
	domsvc "TrendScan/internal/domain/service"
	"TrendScan/internal/services/backtest"
	applogger "TrendScan/pkg/logger"
)

// BacktestUseCase fetches a bar series and runs the signal backtest over it.
// Bars come from the external provider when one is configured, otherwise
// from the local bar store.
type BacktestUseCase struct {
	provider domsvc.BarProvider
	store    domrepo.BarStore
	l        *applogger.Logger
	timeout  time.Duration
}

func NewBacktestUseCase(provider domsvc.BarProvider, store domrepo.BarStore) *BacktestUseCase {
	return &BacktestUseCase{provider: provider, store: store, timeout: 30 * time.Second}
}

// SetLogger injects a structured logger.
func (uc *BacktestUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

type RunBacktestParams struct {
	Symbol             string
	Period             domrepo.Period
	Interval           domrepo.Interval
	WindowSMA          int
	HighCloseThreshold float64
	VolumeMultiplier   float64
	StrictWarmup       bool
}

func (uc *BacktestUseCase) Run(ctx context.Context, p RunBacktestParams) (*models.BacktestResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.WindowSMA < 10 || p.WindowSMA > 50 {
		return nil, fmt.Errorf("window_sma must be within [10,50], got %d", p.WindowSMA)
	}
	if p.HighCloseThreshold < 0.90 || p.HighCloseThreshold > 1.00 {
		return nil, fmt.Errorf("high_close_threshold must be within [0.90,1.00], got %v", p.HighCloseThreshold)
	}
	if p.VolumeMultiplier < 1.0 || p.VolumeMultiplier > 3.0 {
		return nil, fmt.Errorf("volume_multiplier must be within [1.0,3.0], got %v", p.VolumeMultiplier)
	}
	if !domrepo.IsValidPeriod(p.Period) {
		p.Period = domrepo.DefaultPeriod()
	}
	if !domrepo.IsValidInterval(p.Interval) {
		p.Interval = domrepo.DefaultInterval()
	}

	// Overall timeout
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	bars, err := uc.fetchBars(ctx, p.Symbol, p.Period, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}

	records, summary := backtest.Run(bars, backtest.Params{
		WindowSMA:          p.WindowSMA,
		HighCloseThreshold: p.HighCloseThreshold,
		VolumeMultiplier:   p.VolumeMultiplier,
		StrictWarmup:       p.StrictWarmup,
	})

	if uc.l != nil {
		uc.l.Info("backtest run",
			applogger.String("symbol", p.Symbol),
			applogger.String("period", string(p.Period)),
			applogger.String("interval", string(p.Interval)),
			applogger.Int("bars", len(bars)),
			applogger.Int("signals", summary.TotalSignals),
		)
	}

	return &models.BacktestResult{
		Symbol:   p.Symbol,
		Period:   string(p.Period),
		Interval: string(p.Interval),
		Bars:     len(bars),
		Records:  records,
		Summary:  summary,
	}, nil
}

func (uc *BacktestUseCase) fetchBars(ctx context.Context, symbol string, period domrepo.Period, iv domrepo.Interval) ([]models.Bar, error) {
	if uc.provider != nil {
		return uc.provider.FetchBars(ctx, symbol, period, iv)
	}
	if uc.store == nil {
		return nil, fmt.Errorf("no bar source configured")
	}
	to := time.Now().UTC()
	from := domrepo.PeriodStart(to, period)
	return uc.store.GetBars(ctx, symbol, from, to, iv)
}
