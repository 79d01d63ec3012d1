package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"TrendScan/internal/domain/models"
)

func TestWriteBarsCSV(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: ts, Symbol: "AAPL", Open: 100, High: 101.5, Low: 99, Close: 101, Volume: 1200000},
	}

	var buf bytes.Buffer
	if err := WriteBarsCSV(&buf, bars); err != nil {
		t.Fatalf("WriteBarsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "timestamp,symbol,open,high,low,close,volume" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "2024-03-01T00:00:00Z,AAPL,100,101.5,99,101,1200000" {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestWriteSignalRecordsCSV(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []models.SignalRecord{
		{Timestamp: ts, Close: 101, HighCloseRatio: 0.995, VolumeRatio: 1.9, NextClose: 102, Return: 0.0099, Success: true},
	}

	var buf bytes.Buffer
	if err := WriteSignalRecordsCSV(&buf, records); err != nil {
		t.Fatalf("WriteSignalRecordsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[1], ",true") {
		t.Errorf("success column missing: %s", lines[1])
	}
	if !strings.Contains(lines[1], "0.995") {
		t.Errorf("high_close_ratio missing: %s", lines[1])
	}
}

func TestWriteBarsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBarsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteBarsCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "timestamp,symbol,open,high,low,close,volume" {
		t.Errorf("expected header only, got %q", got)
	}
}
