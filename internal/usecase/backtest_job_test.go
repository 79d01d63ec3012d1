package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"TrendScan/internal/domain/models"
	"TrendScan/pkg/cache"
	"TrendScan/pkg/queue"
)

// fakeJobStore records Set calls; other Service methods are unused here.
type fakeJobStore struct {
	cache.Service
	key   string
	value interface{}
}

func (f *fakeJobStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.key = key
	f.value = value
	return nil
}

func TestBacktestJobPayloadRoundTrip(t *testing.T) {
	in := BacktestJobPayload{
		ID: "abc123",
		Request: models.BacktestRequest{
			Symbol:             "AAPL",
			Period:             "2y",
			Interval:           "1d",
			WindowSMA:          30,
			HighCloseThreshold: 0.95,
			VolumeMultiplier:   2.0,
			StrictWarmup:       true,
		},
	}

	// the queue delivers payloads as generic JSON maps
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := queue.ParsePayload[BacktestJobPayload](generic)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if *out != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *out, in)
	}
}

func TestBacktestJobFailedRunIsTerminal(t *testing.T) {
	uc := NewBacktestUseCase(nil, nil) // no bar source: every run fails
	store := &fakeJobStore{}
	job := NewBacktestJob(uc, store, nil)

	if job.Type() != BacktestJobType {
		t.Errorf("Type = %q, want %q", job.Type(), BacktestJobType)
	}

	err := job.Handle(context.Background(), map[string]interface{}{
		"id": "job1",
		"request": map[string]interface{}{
			"symbol":               "AAPL",
			"window_sma":           20,
			"high_close_threshold": 0.98,
			"volume_multiplier":    1.5,
		},
	})
	// the run fails but the job itself must not be retried
	if err != nil {
		t.Fatalf("Handle returned error for failed run: %v", err)
	}
	if store.key != JobKey("job1") {
		t.Errorf("stored under %q, want %q", store.key, JobKey("job1"))
	}
	status, ok := store.value.(models.BacktestJobStatus)
	if !ok {
		t.Fatalf("stored value is %T, want BacktestJobStatus", store.value)
	}
	if status.State != "failed" || status.Error == "" {
		t.Errorf("status = %+v, want failed with error message", status)
	}
}

func TestBacktestJobMissingID(t *testing.T) {
	job := NewBacktestJob(NewBacktestUseCase(nil, nil), &fakeJobStore{}, nil)
	if err := job.Handle(context.Background(), map[string]interface{}{"id": ""}); err == nil {
		t.Fatal("expected error for empty job id")
	}
}
