package equitywise

import (
	"testing"

	"github.com/etnz/equitywise/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// d is a helper for test to create dates from const.
func d(s string) date.Date { return date.MustParse(s) }

// obs is a helper for test to create an observation from const.
func obs(on string, v float64) Observation {
	return Observation{Date: d(on), Value: decimal.NewFromFloat(v)}
}

// table builds a table or fails the test.
func table(t *testing.T, instrument string, window int, observations ...Observation) *Table {
	t.Helper()
	tb, err := NewTable(instrument, window, observations)
	if err != nil {
		t.Fatalf("NewTable(%s) error = %v", instrument, err)
	}
	return tb
}

func vest(on string, q int, fmv, rate float64) VestingEvent {
	return VestingEvent{Grant: "G-" + on, Date: d(on), Quantity: Q(q), FMV: USD(fmv), Rate: R(rate)}
}

func sell(on string, q int, price float64) SaleEvent {
	return SaleEvent{Date: d(on), Quantity: Q(q), Price: USD(price)}
}

// panicResolver fails the test whenever it is used.
type panicResolver struct{ t *testing.T }

func (p panicResolver) Resolve(on date.Date) (Observation, error) {
	p.t.Fatalf("unexpected resolver call on %v", on)
	return Observation{}, nil
}

// countingResolver counts the calls made to r.
type countingResolver struct {
	r     Resolver
	calls int
}

func (c *countingResolver) Resolve(on date.Date) (Observation, error) {
	c.calls++
	return c.r.Resolve(on)
}

// cmpOpts compares results by value: decimals numerically, errors by message.
var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(Money{}, Quantity{}, Rate{}, date.Date{}),
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b error) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Error() == b.Error()
	}),
}
