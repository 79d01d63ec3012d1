package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domrepo "TrendScan/internal/domain/repository"
	xhttp "TrendScan/pkg/http"
)

const chartFixture = `{
  "chart": {
    "result": [
      {
        "timestamp": [1700006400, 1700092800, 1700179200],
        "indicators": {
          "quote": [
            {
              "open":   [10.0, 11.0, null],
              "high":   [10.5, 11.5, 12.5],
              "low":    [9.5, 10.5, 11.5],
              "close":  [10.2, 11.2, 12.2],
              "volume": [1000, 2000, 3000]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func TestFetchBarsFlattensAndDropsNullRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("range"); got != "1y" {
			t.Errorf("range = %q, want 1y", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %q, want 1d", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), WithBaseURL(srv.URL))
	bars, err := c.FetchBars(context.Background(), "AAPL", domrepo.P1y, domrepo.IV1d)
	if err != nil {
		t.Fatalf("FetchBars: %v", err)
	}
	// third row has a null open and must be dropped
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Symbol != "AAPL" || bars[0].Close != 10.2 || bars[0].Volume != 1000 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Errorf("bars not in ascending time order")
	}
}

func TestFetchBarsChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := New(xhttp.NewClient(), WithBaseURL(srv.URL))
	if _, err := c.FetchBars(context.Background(), "NOPE", domrepo.P1y, domrepo.IV1d); err == nil {
		t.Fatal("expected error for chart error payload")
	}
}

func TestFetchBarsEmptySymbol(t *testing.T) {
	c := New(xhttp.NewClient())
	if _, err := c.FetchBars(context.Background(), "", domrepo.P1y, domrepo.IV1d); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}
