package equitywise

import (
	"slices"

	"github.com/etnz/equitywise/date"
)

// FYSummary totals one Indian financial year.
//
// Vesting income is taxed as salary and capital gains under their own
// heads; Net is informational only.
type FYSummary struct {
	Year             date.FinancialYear
	Vests            int // vesting events in the year
	Sales            int // sales with at least one valued allocation
	VestedQuantity   Quantity
	VestingIncomeUSD Money
	VestingIncomeINR Money
	TaxesWithheld    Money // USD
	SoldQuantity     Quantity
	ProceedsINR      Money
	CostBasisINR     Money
	ShortTermINR     Money
	LongTermINR      Money
	CapitalGainINR   Money
	Incomplete       bool
	Issues           []Failure
}

// Net returns vesting income plus capital gains, in INR.
func (s FYSummary) Net() Money { return s.VestingIncomeINR.Add(s.CapitalGainINR) }

// FinancialYears returns the sorted financial years touched by any record.
func FinancialYears(vests []VestingEvent, gains []CapitalGainRecord, failures []Failure) []date.FinancialYear {
	var years []date.FinancialYear
	add := func(d date.Date) {
		fy := date.FinancialYearOf(d)
		if !slices.Contains(years, fy) {
			years = append(years, fy)
		}
	}
	for _, v := range vests {
		add(v.Date)
	}
	for _, g := range gains {
		add(g.Allocation.Sale.Date)
	}
	for _, f := range failures {
		add(f.Date)
	}
	slices.Sort(years)
	return years
}

// SummarizeFinancialYear totals the vests (by vest date) and the capital
// gains (by sale date) falling in fy. Failures dated in fy mark it incomplete.
func SummarizeFinancialYear(fy date.FinancialYear, vests []VestingEvent, gains []CapitalGainRecord, failures []Failure) FYSummary {
	s := FYSummary{
		Year:             fy,
		VestingIncomeUSD: USD(0),
		VestingIncomeINR: INR(0),
		TaxesWithheld:    USD(0),
		ProceedsINR:      INR(0),
		CostBasisINR:     INR(0),
		ShortTermINR:     INR(0),
		LongTermINR:      INR(0),
		CapitalGainINR:   INR(0),
	}
	for _, v := range vests {
		if !fy.Contains(v.Date) {
			continue
		}
		s.Vests++
		s.VestedQuantity = s.VestedQuantity.Add(v.Quantity)
		s.VestingIncomeUSD = s.VestingIncomeUSD.Add(v.IncomeUSD())
		s.VestingIncomeINR = s.VestingIncomeINR.Add(v.Income())
		s.TaxesWithheld = s.TaxesWithheld.Add(v.TaxesWithheld)
	}
	sales := make(map[int]bool)
	for _, g := range gains {
		a := g.Allocation
		if !fy.Contains(a.Sale.Date) {
			continue
		}
		sales[a.SaleIndex] = true
		s.SoldQuantity = s.SoldQuantity.Add(a.Quantity)
		s.ProceedsINR = s.ProceedsINR.Add(g.SaleValueINR)
		s.CostBasisINR = s.CostBasisINR.Add(g.CostBasisINR)
		switch g.Term {
		case LongTerm:
			s.LongTermINR = s.LongTermINR.Add(g.GainINR)
		default:
			s.ShortTermINR = s.ShortTermINR.Add(g.GainINR)
		}
	}
	s.Sales = len(sales)
	s.CapitalGainINR = s.ShortTermINR.Add(s.LongTermINR)
	for _, f := range failures {
		if fy.Contains(f.Date) {
			s.Issues = append(s.Issues, f)
		}
	}
	s.Incomplete = len(s.Issues) > 0
	return s
}

// AggregateFinancialYears summarizes every financial year touched by the records.
func AggregateFinancialYears(vests []VestingEvent, gains []CapitalGainRecord, failures []Failure) []FYSummary {
	years := FinancialYears(vests, gains, failures)
	summaries := make([]FYSummary, 0, len(years))
	for _, fy := range years {
		summaries = append(summaries, SummarizeFinancialYear(fy, vests, gains, failures))
	}
	return summaries
}
