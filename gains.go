package equitywise

import (
	"fmt"

	"github.com/etnz/equitywise/date"
)

// Term classifies a capital gain by holding period.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	switch t {
	case ShortTerm:
		return "SHORT_TERM"
	case LongTerm:
		return "LONG_TERM"
	default:
		return "unknown"
	}
}

// ClassifyTerm returns LongTerm when holdingDays reaches longTermDays.
func ClassifyTerm(holdingDays, longTermDays int) Term {
	if holdingDays >= longTermDays {
		return LongTerm
	}
	return ShortTerm
}

// CapitalGainRecord is a matched allocation valued in INR.
type CapitalGainRecord struct {
	Allocation   MatchedAllocation
	Rate         Observation // USD/INR rate applied on the sale date
	SaleValueUSD Money
	SaleValueINR Money
	CostBasisINR Money
	GainINR      Money
	GainUSD      Money
	Term         Term
}

// Classifier turns matched allocations into capital gain records.
type Classifier struct {
	Rates        Resolver
	LongTermDays int
}

// Classify values the allocation at the sale date rate.
//
// sale value = quantity × sale price × rate(sale date), gain = sale value − cost basis.
func (c Classifier) Classify(a MatchedAllocation) (CapitalGainRecord, error) {
	rate, err := c.Rates.Resolve(a.Sale.Date)
	if err != nil {
		return CapitalGainRecord{}, fmt.Errorf("cannot value %v on %v: %w", a.Sale, a.Sale.Date, err)
	}
	valueUSD := a.Sale.Price.Mul(a.Quantity)
	valueINR := valueUSD.Convert(R(rate.Value))
	return CapitalGainRecord{
		Allocation:   a,
		Rate:         rate,
		SaleValueUSD: valueUSD,
		SaleValueINR: valueINR,
		CostBasisINR: a.CostBasisINR,
		GainINR:      valueINR.Sub(a.CostBasisINR),
		GainUSD:      valueUSD.Sub(a.CostBasisUSD),
		Term:         ClassifyTerm(a.HoldingDays, c.LongTermDays),
	}, nil
}

// ClassifyAll classifies every allocation. A sale whose allocations cannot be
// valued is reported once, as a failure dated on the sale.
func (c Classifier) ClassifyAll(allocations []MatchedAllocation) ([]CapitalGainRecord, []Failure) {
	type sale struct {
		index  int
		stream string
		on     date.Date
	}
	failed := make(map[sale]bool)
	var records []CapitalGainRecord
	var failures []Failure
	for _, a := range allocations {
		key := sale{a.SaleIndex, a.Stream, a.Sale.Date}
		if failed[key] {
			continue
		}
		r, err := c.Classify(a)
		if err != nil {
			failed[key] = true
			failures = append(failures, Failure{Date: a.Sale.Date, Stream: a.Stream, Record: a.Sale.String(), Err: err})
			continue
		}
		records = append(records, r)
	}
	return records, failures
}
