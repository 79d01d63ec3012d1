package models

import "time"

// IndicatorSeries holds the derived rolling series, aligned 1:1 with the
// source bars. Positions inside a rolling warm-up span hold 0, as do ratio
// positions whose denominator was zero or non-finite.
type IndicatorSeries struct {
	SMA            []float64
	AvgVolume      []float64
	HighCloseRatio []float64
	VolumeRatio    []float64
}

// Len returns the common length of the series.
func (s IndicatorSeries) Len() int { return len(s.SMA) }

// SignalFlags holds the per-bar rule outcomes, aligned 1:1 with the bars.
// Signal is the conjunction of the other three.
type SignalFlags struct {
	StrongTrend []bool
	HighClose   []bool
	HighVolume  []bool
	Signal      []bool
}

// SignalRecord is one signal bar with a defined next-bar close. The last bar
// of a series never produces a record.
type SignalRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Close          float64   `json:"close"`
	HighCloseRatio float64   `json:"high_close_ratio"`
	VolumeRatio    float64   `json:"volume_ratio"`
	NextClose      float64   `json:"next_close"`
	Return         float64   `json:"return"`
	Success        bool      `json:"success"`
}

// BacktestSummary aggregates the signal records of one run.
type BacktestSummary struct {
	TotalSignals int     `json:"total_signals"`
	Successes    int     `json:"successes"`
	SuccessRate  float64 `json:"success_rate"`
	MeanReturn   float64 `json:"mean_return"`
}

// NoSignals reports the explicit no-signals-found outcome.
func (s BacktestSummary) NoSignals() bool { return s.TotalSignals == 0 }

// BacktestResult is the full outcome of one run: ordered signal records plus
// the aggregate summary and the inputs that produced them.
type BacktestResult struct {
	Symbol   string          `json:"symbol"`
	Period   string          `json:"period"`
	Interval string          `json:"interval"`
	Bars     int             `json:"bars"`
	Records  []SignalRecord  `json:"records"`
	Summary  BacktestSummary `json:"summary"`
}
