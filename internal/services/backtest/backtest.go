package backtest

import (
	"TrendScan/internal/domain/models"
	"TrendScan/internal/services/indicators"
)

// Run executes the full signal-and-backtest computation over bars: derive
// indicators, evaluate the rule conjunction, then measure the next-bar
// return of every signal bar. It is a pure function of its inputs; two runs
// with identical bars and params produce identical output.
//
// Signal bars without a following bar are dropped, so the last bar of a
// series never appears in the records. An empty record set returns a zero
// summary (the no-signals outcome), never a division by zero.
func Run(bars []models.Bar, p Params) ([]models.SignalRecord, models.BacktestSummary) {
	ind := indicators.Compute(bars, p.WindowSMA)
	flags := Evaluate(bars, ind, p)
	return aggregate(bars, ind, flags)
}

func aggregate(bars []models.Bar, ind models.IndicatorSeries, flags models.SignalFlags) ([]models.SignalRecord, models.BacktestSummary) {
	records := make([]models.SignalRecord, 0)
	var summary models.BacktestSummary

	for i, b := range bars {
		if !flags.Signal[i] {
			continue
		}
		if i == len(bars)-1 {
			continue // no next bar, return undefined
		}
		if b.Close == 0 {
			continue
		}
		next := bars[i+1].Close
		ret := (next - b.Close) / b.Close
		rec := models.SignalRecord{
			Timestamp:      b.Timestamp,
			Close:          b.Close,
			HighCloseRatio: ind.HighCloseRatio[i],
			VolumeRatio:    ind.VolumeRatio[i],
			NextClose:      next,
			Return:         ret,
			Success:        ret > 0,
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return records, summary
	}

	sum := 0.0
	for _, r := range records {
		if r.Success {
			summary.Successes++
		}
		sum += r.Return
	}
	summary.TotalSignals = len(records)
	summary.SuccessRate = float64(summary.Successes) / float64(summary.TotalSignals)
	summary.MeanReturn = sum / float64(summary.TotalSignals)
	return records, summary
}
