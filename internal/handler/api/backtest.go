package api

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
	icache "TrendScan/internal/service/cache"
	"TrendScan/internal/service/export"
	"TrendScan/internal/service/metrics"
	"TrendScan/internal/service/ratelimit"
	"TrendScan/internal/usecase"
	"TrendScan/pkg/cache"
	xhttp "TrendScan/pkg/http"
	applogger "TrendScan/pkg/logger"
	"TrendScan/pkg/queue"

	"github.com/labstack/echo/v4"
)

const resultCacheTTL = 60 * time.Second

// BacktestHandler serves the backtest and bar endpoints over Echo.
type BacktestHandler struct {
	backtest *usecase.BacktestUseCase
	bars     *usecase.BarsUseCase
	queue    queue.QueueService
	jobs     cache.Service
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
	l        *applogger.Logger
}

func NewBacktestHandler(l *applogger.Logger, backtest *usecase.BacktestUseCase, bars *usecase.BarsUseCase) *BacktestHandler {
	metrics.Register()
	return &BacktestHandler{
		backtest: backtest,
		bars:     bars,
		rl:       ratelimit.New(),
		l:        l,
	}
}

// SetCache enables response caching for repeated identical runs.
func (h *BacktestHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetQueue enables asynchronous job endpoints. Both the queue and the
// job-status store must be set for enqueue to be available.
func (h *BacktestHandler) SetQueue(q queue.QueueService, jobs cache.Service) {
	h.queue = q
	h.jobs = jobs
}

func (h *BacktestHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/backtest", h.Run)
	g.GET("/backtest/export", h.ExportSignals)
	g.GET("/bars", h.Bars)
	g.GET("/bars/export", h.ExportBars)
	g.POST("/backtest/jobs", h.EnqueueJob)
	g.GET("/backtest/jobs/:id", h.JobStatus)
}

func (h *BacktestHandler) Run(c echo.Context) error {
	start := time.Now()
	endpoint := "backtest"
	defer func() { metrics.BacktestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":backtest", 5, 2) {
		if h.l != nil {
			h.l.Warn("backtest rate_limited", applogger.String("remote", c.RealIP()))
		}
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	cacheKey := backtestCacheKey(req)
	if b, ok := h.cacheGet(cacheKey); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res, err := h.runBacktest(c, req)
	if err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("backtest usecase error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	metrics.SignalsDetected.WithLabelValues(res.Interval).Observe(float64(res.Summary.TotalSignals))

	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			h.cacheSet(cacheKey, b)
			return c.JSONBlob(http.StatusOK, b)
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *BacktestHandler) ExportSignals(c echo.Context) error {
	start := time.Now()
	endpoint := "backtest_export"
	defer func() { metrics.BacktestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":export", 3, 1) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.runBacktest(c, req)
	if err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("backtest export error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteSignalRecordsCSV(&buf, res.Records); err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_signals.csv"`, req.Symbol))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *BacktestHandler) Bars(c echo.Context) error {
	start := time.Now()
	endpoint := "bars"
	defer func() { metrics.BacktestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":bars", 5, 2) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.getBars(c, req)
	if err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("bars usecase error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *BacktestHandler) ExportBars(c echo.Context) error {
	start := time.Now()
	endpoint := "bars_export"
	defer func() { metrics.BacktestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":export", 3, 1) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.getBars(c, req)
	if err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteBarsCSV(&buf, res.Bars); err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s_bars.csv"`, req.Symbol))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *BacktestHandler) EnqueueJob(c echo.Context) error {
	endpoint := "jobs_enqueue"
	if h.queue == nil || h.jobs == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "job queue not configured")
	}

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":jobs", 3, 1) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	id := newJobID()
	status := models.BacktestJobStatus{ID: id, State: "queued"}
	ctx := c.Request().Context()
	if err := h.jobs.Set(ctx, usecase.JobKey(id), status, 30*time.Minute); err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	if err := h.queue.PublishMessage(ctx, usecase.BacktestJobType, usecase.BacktestJobPayload{ID: id, Request: *req}); err != nil {
		metrics.BacktestErrors.WithLabelValues(endpoint).Inc()
		if h.l != nil {
			h.l.Error("backtest enqueue error", applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	if h.l != nil {
		h.l.Info("backtest job enqueued",
			applogger.String("job_id", id),
			applogger.String("symbol", req.Symbol),
		)
	}
	return xhttp.CreatedResponse(c, status)
}

func (h *BacktestHandler) JobStatus(c echo.Context) error {
	if h.jobs == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "job queue not configured")
	}
	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "id required")
	}

	var status models.BacktestJobStatus
	if err := h.jobs.Get(c.Request().Context(), usecase.JobKey(id), &status); err != nil {
		if err == cache.ErrCacheMiss {
			return xhttp.NotFoundResponse(c, "job not found")
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *BacktestHandler) runBacktest(c echo.Context, req *models.BacktestRequest) (*models.BacktestResult, error) {
	return h.backtest.Run(c.Request().Context(), usecase.RunBacktestParams{
		Symbol:             req.Symbol,
		Period:             domrepo.NormalizePeriod(req.Period),
		Interval:           domrepo.NormalizeInterval(req.Interval),
		WindowSMA:          req.WindowSMA,
		HighCloseThreshold: req.HighCloseThreshold,
		VolumeMultiplier:   req.VolumeMultiplier,
		StrictWarmup:       req.StrictWarmup,
	})
}

func (h *BacktestHandler) getBars(c echo.Context, req *models.BarsRequest) (*usecase.GetBarsResult, error) {
	return h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Symbol:   req.Symbol,
		Period:   domrepo.NormalizePeriod(req.Period),
		Interval: domrepo.NormalizeInterval(req.Interval),
	})
}

func (h *BacktestHandler) cacheGet(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		if h.l != nil {
			h.l.Warn("backtest cache_get_error", applogger.Error(err))
		}
		return nil, false
	}
	if ok && h.l != nil {
		h.l.Debug("backtest cache_hit", applogger.String("key", key))
	}
	return b, ok
}

func (h *BacktestHandler) cacheSet(key string, b []byte) {
	if err := h.cache.SetBytes(key, b, resultCacheTTL); err != nil && h.l != nil {
		h.l.Warn("backtest cache_set_error", applogger.Error(err))
	}
}

func backtestCacheKey(req *models.BacktestRequest) string {
	return fmt.Sprintf("bt:%s:%s:%s:%d:%g:%g:%t",
		req.Symbol, req.Period, req.Interval,
		req.WindowSMA, req.HighCloseThreshold, req.VolumeMultiplier, req.StrictWarmup)
}

func newJobID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
