package repository

import (
	"testing"
	"time"
)

func TestNormalizeInterval(t *testing.T) {
	cases := []struct {
		in   string
		want Interval
	}{
		{"", IV1d},
		{"1d", IV1d},
		{"5d", IV5d},
		{"1wk", IV1wk},
		{"1mo", IV1mo},
		{"3mo", IV3mo},
		{"7h", IV1d},
		{"1D", IV1d},
	}
	for _, tc := range cases {
		if got := NormalizeInterval(tc.in); got != tc.want {
			t.Errorf("NormalizeInterval(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePeriod(t *testing.T) {
	cases := []struct {
		in   string
		want Period
	}{
		{"", P1y},
		{"6mo", P6mo},
		{"1y", P1y},
		{"2y", P2y},
		{"5y", P5y},
		{"10y", P10y},
		{"3y", P1y},
	}
	for _, tc := range cases {
		if got := NormalizePeriod(tc.in); got != tc.want {
			t.Errorf("NormalizePeriod(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		p    Period
		want time.Time
	}{
		{P6mo, time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{P1y, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{P2y, time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)},
		{P5y, time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC)},
		{P10y, time.Date(2014, 6, 15, 0, 0, 0, 0, time.UTC)},
		{Period("bogus"), time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := PeriodStart(end, tc.p); !got.Equal(tc.want) {
			t.Errorf("PeriodStart(%s) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
