package equitywise

import (
	"iter"
	"sort"

	"github.com/etnz/equitywise/date"
)

// disposal is a quantity leaving a lot on a date.
type disposal struct {
	on       date.Date
	quantity Quantity
}

// Timeline projects the vested and unsold quantity of one stream over time.
//
// It replays the final FIFO allocations by sale date, so the quantity on any
// date d equals what matching only the sales dated on or before d would
// leave. A Timeline is read-only and can be queried at arbitrary dates.
type Timeline struct {
	stream    string
	lots      []int // arena indices, FIFO order
	ledger    []Lot
	disposals map[int][]disposal // per lot, sorted by date
}

// NewTimeline builds the timeline of 'stream' from the ledger lots (indexed
// like MatchedAllocation.Lot) and the allocations made against them.
func NewTimeline(stream string, lots []Lot, allocations []MatchedAllocation) *Timeline {
	t := &Timeline{stream: stream, ledger: lots, disposals: make(map[int][]disposal)}
	for i, lot := range lots {
		if lot.Stream == stream {
			t.lots = append(t.lots, i)
		}
	}
	sort.SliceStable(t.lots, func(i, j int) bool { return lots[t.lots[i]].Date.Before(lots[t.lots[j]].Date) })
	for _, a := range allocations {
		if a.Stream != stream {
			continue
		}
		t.disposals[a.Lot] = append(t.disposals[a.Lot], disposal{on: a.Sale.Date, quantity: a.Quantity})
	}
	for _, d := range t.disposals {
		sort.SliceStable(d, func(i, j int) bool { return d[i].on.Before(d[j].on) })
	}
	return t
}

// Stream returns the stream of the timeline.
func (t *Timeline) Stream() string { return t.stream }

// Lots returns the arena indices of the stream's lots in FIFO order.
func (t *Timeline) Lots() []int { return t.lots }

// Lot returns the lot at arena index i.
func (t *Timeline) Lot(i int) Lot { return t.ledger[i] }

// LotQuantityOn returns the quantity of lot i held at the end of day 'on'.
func (t *Timeline) LotQuantityOn(i int, on date.Date) Quantity {
	lot := t.ledger[i]
	if lot.Date.After(on) {
		return Quantity{}
	}
	q := lot.Original
	for _, d := range t.disposals[i] {
		if d.on.After(on) {
			break
		}
		q = q.Sub(d.quantity)
	}
	return q
}

// QuantityOn returns the quantity held at the end of day 'on'.
func (t *Timeline) QuantityOn(on date.Date) Quantity {
	var total Quantity
	for _, i := range t.lots {
		if t.ledger[i].Date.After(on) {
			break
		}
		total = total.Add(t.LotQuantityOn(i, on))
	}
	return total
}

// Sample yields the quantity held on each date. The sequence can be iterated
// any number of times.
func (t *Timeline) Sample(dates []date.Date) iter.Seq2[date.Date, Quantity] {
	return func(yield func(date.Date, Quantity) bool) {
		for _, d := range dates {
			if !yield(d, t.QuantityOn(d)) {
				return
			}
		}
	}
}

// First returns the earliest vest date of the stream, or the zero date.
func (t *Timeline) First() date.Date {
	if len(t.lots) == 0 {
		return date.Date{}
	}
	return t.ledger[t.lots[0]].Date
}
