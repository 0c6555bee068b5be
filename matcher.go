package equitywise

import (
	"sort"

	"github.com/etnz/equitywise/date"
	"github.com/google/uuid"
)

// MatchedAllocation is the part of a sale covered by one lot.
type MatchedAllocation struct {
	ID           uuid.UUID // stable across runs on the same input
	Stream       string
	SaleIndex    int // index of the sale in the input of MatchSales
	Sale         SaleEvent
	Lot          int // index of the lot in the Ledger
	Grant        string
	VestDate     date.Date
	Quantity     Quantity
	CostBasisUSD Money
	CostBasisINR Money // fixed at vesting, never re-derived at the sale rate
	HoldingDays  int
}

// Matching is the outcome of MatchSales.
type Matching struct {
	Ledger      *Ledger
	Allocations []MatchedAllocation // in sale processing order
	Failures    []Failure           // sales that could not be allocated at all
}

// MatchSales allocates every sale against the ledger, in FIFO order.
//
// Sales are processed by date, ties in input order, so the result does not
// depend on how the input was sorted. A sale that fails is reported in
// Failures and leaves the ledger untouched; the following sales still run.
func MatchSales(ledger *Ledger, sales []SaleEvent) Matching {
	order := make([]int, len(sales))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return sales[order[i]].Date.Before(sales[order[j]].Date) })

	m := Matching{Ledger: ledger}
	for _, i := range order {
		sale := sales[i]
		allocations, err := ledger.Allocate(sale)
		if err != nil {
			m.Failures = append(m.Failures, Failure{Date: sale.Date, Stream: sale.Stream, Record: sale.String(), Err: err})
			continue
		}
		for _, a := range allocations {
			a.SaleIndex = i
			m.Allocations = append(m.Allocations, a)
		}
	}
	return m
}
