package repository

import "time"

// IsValidInterval returns true if iv is a supported bar interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV1d, IV5d, IV1wk, IV1mo, IV3mo:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bar interval.
func DefaultInterval() Interval { return IV1d }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// IsValidPeriod returns true if p is a supported lookback period.
func IsValidPeriod(p Period) bool {
	switch p {
	case P6mo, P1y, P2y, P5y, P10y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default lookback period.
func DefaultPeriod() Period { return P1y }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// PeriodStart returns the start of the lookback range ending at `end`.
func PeriodStart(end time.Time, p Period) time.Time {
	switch p {
	case P6mo:
		return end.AddDate(0, -6, 0)
	case P1y:
		return end.AddDate(-1, 0, 0)
	case P2y:
		return end.AddDate(-2, 0, 0)
	case P5y:
		return end.AddDate(-5, 0, 0)
	case P10y:
		return end.AddDate(-10, 0, 0)
	default:
		return end.AddDate(-1, 0, 0)
	}
}
