package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
	"TrendScan/pkg/cache"
	applogger "TrendScan/pkg/logger"
	"TrendScan/pkg/queue"
)

const (
	// BacktestJobType is the queue message type for asynchronous runs.
	BacktestJobType = "backtest.run"

	jobKeyPrefix = "backtest:job"
	jobResultTTL = 30 * time.Minute
)

// BacktestJobPayload is the queued form of one backtest request.
type BacktestJobPayload struct {
	ID      string                 `json:"id"`
	Request models.BacktestRequest `json:"request"`
}

// JobKey returns the cache key holding a job's status.
func JobKey(id string) string { return cache.GenerateKey(jobKeyPrefix, id) }

// BacktestJob executes queued backtest runs and stores their outcome in the
// result cache for later polling.
type BacktestJob struct {
	uc      *BacktestUseCase
	results cache.Service
	l       *applogger.Logger
}

func NewBacktestJob(uc *BacktestUseCase, results cache.Service, l *applogger.Logger) *BacktestJob {
	return &BacktestJob{uc: uc, results: results, l: l}
}

func (j *BacktestJob) Name() string { return "backtest_run" }

func (j *BacktestJob) Type() string { return BacktestJobType }

func (j *BacktestJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BacktestJobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse backtest job payload: %w", err)
	}
	if p.ID == "" {
		return fmt.Errorf("backtest job id empty")
	}

	status := models.BacktestJobStatus{ID: p.ID, State: "done"}
	res, err := j.uc.Run(ctx, RunBacktestParams{
		Symbol:             p.Request.Symbol,
		Period:             domrepo.NormalizePeriod(p.Request.Period),
		Interval:           domrepo.NormalizeInterval(p.Request.Interval),
		WindowSMA:          p.Request.WindowSMA,
		HighCloseThreshold: p.Request.HighCloseThreshold,
		VolumeMultiplier:   p.Request.VolumeMultiplier,
		StrictWarmup:       p.Request.StrictWarmup,
	})
	if err != nil {
		// a failed run is still a terminal job state, not a retryable error
		status.State = "failed"
		status.Error = err.Error()
		if j.l != nil {
			j.l.Warn("backtest job failed",
				applogger.String("job_id", p.ID),
				applogger.String("symbol", p.Request.Symbol),
				applogger.Error(err),
			)
		}
	} else {
		status.Result = res
	}

	if err := j.results.Set(ctx, JobKey(p.ID), status, jobResultTTL); err != nil {
		return fmt.Errorf("store backtest job result: %w", err)
	}
	if j.l != nil && status.State == "done" {
		j.l.Info("backtest job done",
			applogger.String("job_id", p.ID),
			applogger.String("symbol", p.Request.Symbol),
			applogger.Int("signals", res.Summary.TotalSignals),
		)
	}
	return nil
}

var _ queue.Job = (*BacktestJob)(nil)
