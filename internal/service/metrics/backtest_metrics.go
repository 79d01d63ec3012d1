package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	BacktestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trendscan",
			Subsystem: "backtest",
			Name:      "latency_seconds",
			Help:      "Latency of backtest endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BacktestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trendscan",
			Subsystem: "backtest",
			Name:      "errors_total",
			Help:      "Errors by backtest endpoint",
		},
		[]string{"endpoint"},
	)

	SignalsDetected = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trendscan",
			Subsystem: "backtest",
			Name:      "signals_per_run",
			Help:      "Signal count distribution per backtest run",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
		[]string{"interval"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(BacktestLatency, BacktestErrors, SignalsDetected)
	})
}
