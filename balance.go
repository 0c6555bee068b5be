package equitywise

import (
	"fmt"

	"github.com/etnz/equitywise/date"
)

// Sampling selects the observation points of a calendar year.
type Sampling int

const (
	// MonthEnd samples January 1 and the last day of every month.
	MonthEnd Sampling = iota
	// Daily samples every day of the year.
	Daily
)

func (s Sampling) String() string {
	switch s {
	case MonthEnd:
		return "month-end"
	case Daily:
		return "daily"
	default:
		return "unknown"
	}
}

// ParseSampling parses "month-end" or "daily".
func ParseSampling(s string) (Sampling, error) {
	switch s {
	case "month-end", "monthend", "monthly":
		return MonthEnd, nil
	case "daily":
		return Daily, nil
	default:
		return 0, fmt.Errorf("unknown sampling %q want month-end or daily", s)
	}
}

// Dates returns the sample dates of a calendar year in chronological order.
// January 1 is always first and December 31 always last.
func (s Sampling) Dates(year int) []date.Date {
	if s == Daily {
		var dates []date.Date
		for d := range date.CalendarYear(year).Days() {
			dates = append(dates, d)
		}
		return dates
	}
	return date.MonthEnds(year)
}

// BalanceSample values the holdings on one date.
type BalanceSample struct {
	Date     date.Date
	Quantity Quantity
	Price    Observation // USD closing price, zero when nothing is held
	Rate     Observation // USD/INR, zero when nothing is held
	Value    Money       // INR
}

// Balances are the opening, peak and closing values of a calendar year.
type Balances struct {
	Year    int
	Opening BalanceSample
	Peak    BalanceSample
	Closing BalanceSample
	Samples []BalanceSample
}

// Tracker samples a Timeline over a calendar year.
type Tracker struct {
	Rates    Resolver
	Prices   Resolver
	Sampling Sampling
}

// Sample values the timeline on a single date.
func (t Tracker) Sample(tl *Timeline, on date.Date) (BalanceSample, error) {
	return t.value(on, tl.QuantityOn(on))
}

// value values q shares on a date. Nothing held means a zero value and no
// resolver call.
func (t Tracker) value(on date.Date, q Quantity) (BalanceSample, error) {
	s := BalanceSample{Date: on, Quantity: q, Value: INR(0)}
	if q.IsZero() {
		return s, nil
	}
	price, err := t.Prices.Resolve(on)
	if err != nil {
		return s, fmt.Errorf("cannot value %v shares on %v: %w", q, on, err)
	}
	rate, err := t.Rates.Resolve(on)
	if err != nil {
		return s, fmt.Errorf("cannot value %v shares on %v: %w", q, on, err)
	}
	s.Price, s.Rate = price, rate
	s.Value = USD(price.Value).Mul(q).Convert(R(rate.Value))
	return s, nil
}

// Track samples the timeline over calendar year 'year'.
//
// Opening is the January 1 sample, Closing the December 31 sample and Peak
// the highest value, the earliest date winning ties. The first sample that
// cannot be valued aborts the year.
func (t Tracker) Track(tl *Timeline, year int) (Balances, error) {
	b := Balances{Year: year}
	for on, q := range tl.Sample(t.Sampling.Dates(year)) {
		s, err := t.value(on, q)
		if err != nil {
			return b, err
		}
		if len(b.Samples) == 0 || s.Value.GreaterThan(b.Peak.Value) {
			b.Peak = s
		}
		b.Samples = append(b.Samples, s)
	}
	if n := len(b.Samples); n > 0 {
		b.Opening, b.Closing = b.Samples[0], b.Samples[n-1]
	}
	return b, nil
}
