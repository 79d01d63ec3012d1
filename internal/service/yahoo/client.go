package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"TrendScan/internal/domain/models"
	domrepo "TrendScan/internal/domain/repository"
	domsvc "TrendScan/internal/domain/service"
	xhttp "TrendScan/pkg/http"
	applogger "TrendScan/pkg/logger"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Client fetches OHLCV bars from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	l       *applogger.Logger
}

// Option configures the Yahoo client.
type Option func(*Client)

// WithBaseURL overrides the chart API base URL (useful for tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

// New creates a Yahoo chart API client.
func New(httpClient *xhttp.Client, opts ...Option) *Client {
	c := &Client{baseURL: defaultBaseURL, http: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the nested chart API payload. Quote arrays use
// pointers because Yahoo emits JSON null for halted or partial rows.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars downloads bars for one symbol over a trailing period.
func (c *Client) FetchBars(ctx context.Context, symbol string, period domrepo.Period, iv domrepo.Interval) ([]models.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("yahoo: symbol empty")
	}
	start := time.Now()

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(symbol)),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; trendscan/1.0)",
		},
		QueryParams: map[string][]string{
			"range":    {string(period)},
			"interval": {string(iv)},
			"events":   {"history"},
		},
	}, &resp)
	if err != nil {
		if c.l != nil {
			c.l.Error("yahoo fetch error",
				applogger.String("symbol", symbol),
				applogger.String("range", string(period)),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s (%s)",
			symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no result for %s", symbol)
	}

	bars := flattenResult(symbol, &resp)
	if c.l != nil {
		c.l.Info("yahoo fetch ok",
			applogger.String("symbol", symbol),
			applogger.String("range", string(period)),
			applogger.String("interval", string(iv)),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}

// flattenResult converts the columnar chart payload into bars, dropping
// rows where any OHLCV field is null or non-finite.
func flattenResult(symbol string, resp *chartResponse) []models.Bar {
	res := resp.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	q := res.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		o := at(q.Open, i)
		h := at(q.High, i)
		lo := at(q.Low, i)
		cl := at(q.Close, i)
		v := at(q.Volume, i)
		if o == nil || h == nil || lo == nil || cl == nil || v == nil {
			continue
		}
		if !finite(*o) || !finite(*h) || !finite(*lo) || !finite(*cl) || !finite(*v) {
			continue
		}
		bars = append(bars, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Symbol:    symbol,
			Open:      *o,
			High:      *h,
			Low:       *lo,
			Close:     *cl,
			Volume:    *v,
		})
	}
	return bars
}

func at(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var _ domsvc.BarProvider = (*Client)(nil)
