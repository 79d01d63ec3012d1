package repository

import (
	"context"
	"time"

	"TrendScan/internal/domain/models"
)

// Interval represents bar resolution buckets.
type Interval string

const (
	IV1d  Interval = "1d"
	IV5d  Interval = "5d"
	IV1wk Interval = "1wk"
	IV1mo Interval = "1mo"
	IV3mo Interval = "3mo"
)

// Period represents a lookback range ending at the current date.
type Period string

const (
	P6mo Period = "6mo"
	P1y  Period = "1y"
	P2y  Period = "2y"
	P5y  Period = "5y"
	P10y Period = "10y"
)

// BarStore provides read-only access to stored bars for the backtest side.
type BarStore interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, iv Interval) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int, iv Interval) ([]models.Bar, error)
}
