package service

import (
	"context"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
)

// BarProvider fetches an already-shaped bar series from an external market
// data source. Symbol resolution, range selection, and network failures all
// live behind this boundary; the backtest core only ever sees []models.Bar.
type BarProvider interface {
	FetchBars(ctx context.Context, symbol string, period domrepo.Period, iv domrepo.Interval) ([]models.Bar, error)
}
