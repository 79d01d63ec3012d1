package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
	domsvc "TrendScan/internal/domain/service"
)

// BarsUseCase provides business logic for retrieving the raw bar series.
type BarsUseCase struct {
	provider domsvc.BarProvider
	store    domrepo.BarStore
}

func NewBarsUseCase(provider domsvc.BarProvider, store domrepo.BarStore) *BarsUseCase {
	return &BarsUseCase{provider: provider, store: store}
}

type GetBarsParams struct {
	Symbol   string
	Period   domrepo.Period
	Interval domrepo.Interval
	Limit    int
}

type GetBarsResult struct {
	Symbol   string
	Period   string
	Interval string
	Count    int
	Bars     []models.Bar
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !domrepo.IsValidPeriod(p.Period) {
		p.Period = domrepo.DefaultPeriod()
	}
	if !domrepo.IsValidInterval(p.Interval) {
		p.Interval = domrepo.DefaultInterval()
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	var bars []models.Bar
	var err error
	if uc.provider != nil {
		bars, err = uc.provider.FetchBars(ctx, p.Symbol, p.Period, p.Interval)
	} else if uc.store != nil {
		to := time.Now().UTC()
		from := domrepo.PeriodStart(to, p.Period)
		bars, err = uc.store.GetBars(ctx, p.Symbol, from, to, p.Interval)
	} else {
		err = fmt.Errorf("no bar source configured")
	}
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if len(bars) > p.Limit {
		bars = bars[:p.Limit]
	}

	return &GetBarsResult{
		Symbol:   p.Symbol,
		Period:   string(p.Period),
		Interval: string(p.Interval),
		Count:    len(bars),
		Bars:     bars,
	}, nil
}
