package equitywise

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/etnz/equitywise/date"
	"github.com/google/uuid"
)

// Lot is a quantity of shares acquired by one vesting event.
//
// 0 ≤ Remaining ≤ Original always holds. A lot whose Remaining reached zero is
// kept: past calendar years still need its quantity over time.
type Lot struct {
	Stream      string
	Grant       string
	Vest        int // index of the originating VestingEvent
	Date        date.Date
	Original    Quantity
	Remaining   Quantity
	UnitCostUSD Money
	UnitCostINR Money
}

// Sold returns the quantity already allocated to sales.
func (l Lot) Sold() Quantity { return l.Original.Sub(l.Remaining) }

// Ledger owns the lots of every grant stream.
//
// Lots live in a single arena and are referred to by index. Each stream keeps
// its lot indices in vest date order, ties in load order.
type Ledger struct {
	lots    []Lot
	streams map[string][]int
	seq     int // allocations made so far, seeds allocation IDs
}

// NewLedger creates one lot per vesting event.
func NewLedger(vests []VestingEvent) (*Ledger, error) {
	l := &Ledger{streams: make(map[string][]int)}
	var errs []error
	for i, v := range vests {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		l.lots = append(l.lots, Lot{
			Stream:      v.Stream,
			Grant:       v.Grant,
			Vest:        i,
			Date:        v.Date,
			Original:    v.Quantity,
			Remaining:   v.Quantity,
			UnitCostUSD: v.FMV,
			UnitCostINR: v.UnitCostINR(),
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid vesting events: %w", err)
	}
	for i, lot := range l.lots {
		l.streams[lot.Stream] = append(l.streams[lot.Stream], i)
	}
	for _, idx := range l.streams {
		sort.SliceStable(idx, func(i, j int) bool { return l.lots[idx[i]].Date.Before(l.lots[idx[j]].Date) })
	}
	return l, nil
}

// Streams returns the grant streams in the ledger, sorted.
func (l *Ledger) Streams() []string {
	streams := make([]string, 0, len(l.streams))
	for s := range l.streams {
		streams = append(streams, s)
	}
	slices.Sort(streams)
	return streams
}

// Lot returns the lot at index i.
func (l *Ledger) Lot(i int) Lot { return l.lots[i] }

// Lots returns a copy of all the lots, indexed like MatchedAllocation.Lot.
func (l *Ledger) Lots() []Lot { return slices.Clone(l.lots) }

// StreamLots returns the indices of the lots of a stream in FIFO order.
func (l *Ledger) StreamLots(stream string) []int { return slices.Clone(l.streams[stream]) }

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{lots: slices.Clone(l.lots), streams: make(map[string][]int, len(l.streams)), seq: l.seq}
	for s, idx := range l.streams {
		c.streams[s] = slices.Clone(idx)
	}
	return c
}

// Available returns the unsold quantity of the stream's lots vested on or before 'on'.
func (l *Ledger) Available(stream string, on date.Date) Quantity {
	var total Quantity
	for _, i := range l.streams[stream] {
		lot := l.lots[i]
		if lot.Date.After(on) {
			break
		}
		total = total.Add(lot.Remaining)
	}
	return total
}

// allocationNamespace seeds the name based allocation IDs.
var allocationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/equitywise/allocation"))

// Allocate consumes the sale against the oldest lots of its stream first.
//
// Only lots vested on or before the sale date are eligible. Allocation is all
// or nothing: when the eligible lots cannot cover the sale, an
// *InsufficientLotsError is returned and no lot is modified.
func (l *Ledger) Allocate(sale SaleEvent) ([]MatchedAllocation, error) {
	if err := sale.Validate(); err != nil {
		return nil, err
	}
	available := l.Available(sale.Stream, sale.Date)
	if available.LessThan(sale.Quantity) {
		return nil, &InsufficientLotsError{Stream: sale.Stream, Date: sale.Date, Requested: sale.Quantity, Available: available}
	}

	var allocations []MatchedAllocation
	need := sale.Quantity
	for _, i := range l.streams[sale.Stream] {
		if need.IsZero() {
			break
		}
		lot := &l.lots[i]
		if lot.Remaining.IsZero() {
			continue
		}
		q := MinQuantity(lot.Remaining, need)
		lot.Remaining = lot.Remaining.Sub(q)
		need = need.Sub(q)

		l.seq++
		allocations = append(allocations, MatchedAllocation{
			ID:           uuid.NewSHA1(allocationNamespace, fmt.Appendf(nil, "%s/%d/%d", sale.Stream, l.seq, i)),
			Stream:       sale.Stream,
			Sale:         sale,
			Lot:          i,
			Grant:        lot.Grant,
			VestDate:     lot.Date,
			Quantity:     q,
			CostBasisUSD: lot.UnitCostUSD.Mul(q),
			CostBasisINR: lot.UnitCostINR.Mul(q),
			HoldingDays:  sale.Date.DaysSince(lot.Date),
		})
	}
	return allocations, nil
}
