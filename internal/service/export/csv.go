package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"TrendScan/internal/domain/models"
)

// WriteBarsCSV writes bars as CSV with a header row.
func WriteBarsCSV(w io.Writer, bars []models.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "symbol", "open", "high", "low", "close", "volume"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range bars {
		rec := []string{
			b.Timestamp.UTC().Format(time.RFC3339),
			b.Symbol,
			ftoa(b.Open),
			ftoa(b.High),
			ftoa(b.Low),
			ftoa(b.Close),
			ftoa(b.Volume),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSignalRecordsCSV writes per-signal backtest records as CSV.
func WriteSignalRecordsCSV(w io.Writer, records []models.SignalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "close", "high_close_ratio", "volume_ratio", "next_close", "return", "success"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		rec := []string{
			r.Timestamp.UTC().Format(time.RFC3339),
			ftoa(r.Close),
			ftoa(r.HighCloseRatio),
			ftoa(r.VolumeRatio),
			ftoa(r.NextClose),
			ftoa(r.Return),
			strconv.FormatBool(r.Success),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
