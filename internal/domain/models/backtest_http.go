package models

// Requests for backtest HTTP endpoints. Defined in domain for consistency and reuse.

type BacktestRequest struct {
	Symbol             string  `query:"symbol" json:"symbol" validate:"required"`
	Period             string  `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y 10y"`
	Interval           string  `query:"interval" json:"interval" default:"1d" validate:"oneof=1d 5d 1wk 1mo 3mo"`
	WindowSMA          int     `query:"window_sma" json:"window_sma" default:"20" validate:"gte=10,lte=50"`
	HighCloseThreshold float64 `query:"high_close_threshold" json:"high_close_threshold" default:"0.98" validate:"gte=0.90,lte=1.00"`
	VolumeMultiplier   float64 `query:"volume_multiplier" json:"volume_multiplier" default:"1.5" validate:"gte=1.0,lte=3.0"`
	StrictWarmup       bool    `query:"strict_warmup" json:"strict_warmup"`
}

type BarsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Period   string `query:"period" json:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y 10y"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1d 5d 1wk 1mo 3mo"`
}

// BacktestJobStatus is the stored state of an asynchronous backtest job.
type BacktestJobStatus struct {
	ID     string          `json:"id"`
	State  string          `json:"state"` // "queued", "done", "failed"
	Error  string          `json:"error,omitempty"`
	Result *BacktestResult `json:"result,omitempty"`
}
