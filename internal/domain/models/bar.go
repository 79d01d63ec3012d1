package models

import "time"

// Bar is one OHLCV observation for a symbol, one row per interval bucket.
type Bar struct {
	Timestamp time.Time
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Tick is a single trade print from the live market stream. Ticks are
// ingested raw; bar aggregation happens downstream in ClickHouse.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
