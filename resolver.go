package equitywise

import (
	"fmt"

	"github.com/etnz/equitywise/date"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Observation is a value recorded on a date: an exchange rate or a closing price.
type Observation struct {
	Date  date.Date
	Value decimal.Decimal
}

// Resolver resolves the reference value applicable on a date.
//
// The returned Observation carries the date the value was actually observed
// on, which is the requested date or an earlier one.
type Resolver interface {
	Resolve(on date.Date) (Observation, error)
}

// RateInstrument names the USD to INR exchange rate series.
const RateInstrument = "USD/INR"

// Table is an immutable, sorted series of observations that resolves a date to
// the observation on that date or the nearest earlier one within Window days.
//
// Table is safe for concurrent use once built.
type Table struct {
	instrument string
	window     int
	series     date.History[decimal.Decimal]
}

// NewTable builds a Table from observations in any order.
// Duplicate dates and non-positive values are rejected.
func NewTable(instrument string, window int, observations []Observation) (*Table, error) {
	if window < 0 {
		return nil, fmt.Errorf("%s: negative fallback window %d", instrument, window)
	}
	t := &Table{instrument: instrument, window: window}
	for _, o := range observations {
		if o.Date.IsZero() {
			return nil, fmt.Errorf("%s: observation without date: %w", instrument, ErrInvalidDate)
		}
		if t.series.Has(o.Date) {
			return nil, fmt.Errorf("%s: duplicate observation on %v: %w", instrument, o.Date, ErrInvalidDate)
		}
		if !o.Value.IsPositive() {
			return nil, fmt.Errorf("%s: observation on %v is %v: %w", instrument, o.Date, o.Value, ErrInvalidQuantity)
		}
		t.series.Append(o.Date, o.Value)
	}
	return t, nil
}

// NewRateTable builds the USD/INR exchange rate table.
func NewRateTable(window int, observations []Observation) (*Table, error) {
	return NewTable(RateInstrument, window, observations)
}

// NewPriceTable builds the closing price table of a stock, in USD.
func NewPriceTable(ticker string, window int, observations []Observation) (*Table, error) {
	return NewTable(ticker, window, observations)
}

func (t *Table) Instrument() string { return t.instrument }
func (t *Table) Window() int        { return t.window }
func (t *Table) Len() int           { return t.series.Len() }

// Range returns the first and last observation dates.
func (t *Table) Range() date.Range {
	first, _ := t.series.First()
	last, _ := t.series.Latest()
	return date.Range{From: first, To: last}
}

// Resolve returns the observation on 'on', or the nearest one at most Window
// days earlier. Later observations are never used.
func (t *Table) Resolve(on date.Date) (Observation, error) {
	day, v, ok := t.series.Within(on, t.window)
	if !ok {
		return Observation{}, &NoDataError{Instrument: t.instrument, Date: on, Window: t.window}
	}
	return Observation{Date: day, Value: v}, nil
}

// Cached memoizes the answers of a Resolver, errors included.
//
// Daily sampling of several streams hits the same dates over and over.
type Cached struct {
	r     Resolver
	cache *cache.Cache
}

type resolution struct {
	obs Observation
	err error
}

// NewCached wraps r. Entries never expire, the underlying data is immutable.
func NewCached(r Resolver) *Cached {
	return &Cached{r: r, cache: cache.New(cache.NoExpiration, 0)}
}

func (c *Cached) Resolve(on date.Date) (Observation, error) {
	key := on.String()
	if v, found := c.cache.Get(key); found {
		res := v.(resolution)
		return res.obs, res.err
	}
	obs, err := c.r.Resolve(on)
	c.cache.Set(key, resolution{obs, err}, cache.NoExpiration)
	return obs, err
}

// Len returns the number of memoized dates.
func (c *Cached) Len() int { return c.cache.ItemCount() }
