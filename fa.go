package equitywise

import (
	"time"

	"github.com/etnz/equitywise/date"
)

// BasisPeak is the only declaration basis: the peak balance of the year.
const BasisPeak = "peak"

// Declaration is the outcome of the Foreign Assets threshold test.
type Declaration struct {
	Required  bool
	Basis     string
	Threshold Money
}

// VestDetail is the Schedule FA row of one lot for a calendar year.
type VestDetail struct {
	Lot             int
	Grant           string
	VestDate        date.Date
	InitialShares   Quantity
	InitialValueINR Money // at vesting FMV and rate
	PeakShares      Quantity
	PeakValueINR    Money
	PeakDate        date.Date
	PeakPrice       Observation
	PeakRate        Observation
	ClosingShares   Quantity
	ClosingValueINR Money
	SoldShares      Quantity // during the year
	ProceedsINR     Money    // gross, of the shares sold during the year
}

// FADeclarationSummary is the Foreign Assets data of one stream for one
// calendar year. Err is set when the year could not be valued; the other
// balances are then meaningless.
type FADeclarationSummary struct {
	Stream      string
	Year        int
	Opening     BalanceSample
	Peak        BalanceSample
	Closing     BalanceSample
	Samples     []BalanceSample
	Lots        []VestDetail
	Declaration Declaration
	Err         error
}

// Evaluate decides whether the holdings must be declared: the peak balance
// strictly exceeds the INR threshold.
func Evaluate(s FADeclarationSummary, threshold Money) Declaration {
	return Declaration{
		Required:  s.Peak.Value.GreaterThan(threshold),
		Basis:     BasisPeak,
		Threshold: threshold,
	}
}

// ComputeFA tracks the timeline over calendar year 'year', details every lot
// held during the year and evaluates the declaration against threshold.
// gains provides the proceeds of the lots sold during the year.
func ComputeFA(tracker Tracker, tl *Timeline, year int, gains []CapitalGainRecord, threshold Money) FADeclarationSummary {
	s := FADeclarationSummary{Stream: tl.Stream(), Year: year}
	b, err := tracker.Track(tl, year)
	if err != nil {
		s.Err = err
		return s
	}
	s.Opening, s.Peak, s.Closing, s.Samples = b.Opening, b.Peak, b.Closing, b.Samples
	s.Lots = vestDetails(tl, b, gains)
	s.Declaration = Evaluate(s, threshold)
	return s
}

func vestDetails(tl *Timeline, b Balances, gains []CapitalGainRecord) []VestDetail {
	cy := date.CalendarYear(b.Year)
	var details []VestDetail
	for _, i := range tl.Lots() {
		lot := tl.Lot(i)
		if lot.Date.After(cy.To) {
			break
		}
		d := VestDetail{
			Lot:             i,
			Grant:           lot.Grant,
			VestDate:        lot.Date,
			InitialShares:   lot.Original,
			InitialValueINR: lot.UnitCostINR.Mul(lot.Original),
			PeakValueINR:    INR(0),
			ClosingValueINR: INR(0),
			ProceedsINR:     INR(0),
		}
		for _, g := range gains {
			a := g.Allocation
			if a.Lot == i && cy.Contains(a.Sale.Date) {
				d.SoldShares = d.SoldShares.Add(a.Quantity)
				d.ProceedsINR = d.ProceedsINR.Add(g.SaleValueINR)
			}
		}
		start := cy.From
		if lot.Date.After(start) {
			start = lot.Date
		}
		if tl.LotQuantityOn(i, start).IsZero() && d.SoldShares.IsZero() {
			continue // not held during the year
		}
		for _, sample := range b.Samples {
			q := tl.LotQuantityOn(i, sample.Date)
			if q.IsZero() {
				continue
			}
			v := USD(sample.Price.Value).Mul(q).Convert(R(sample.Rate.Value))
			if d.PeakDate.IsZero() || v.GreaterThan(d.PeakValueINR) {
				d.PeakShares, d.PeakValueINR, d.PeakDate = q, v, sample.Date
				d.PeakPrice, d.PeakRate = sample.Price, sample.Rate
			}
		}
		d.ClosingShares = tl.LotQuantityOn(i, date.New(b.Year, time.December, 31))
		if !d.ClosingShares.IsZero() {
			d.ClosingValueINR = USD(b.Closing.Price.Value).Mul(d.ClosingShares).Convert(R(b.Closing.Rate.Value))
		}
		details = append(details, d)
	}
	return details
}
