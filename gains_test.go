package equitywise

import (
	"errors"
	"testing"
)

func TestClassifier_Scenario(t *testing.T) {
	ledger, err := NewLedger([]VestingEvent{vest("2022-01-10", 100, 50, 75)})
	if err != nil {
		t.Fatal(err)
	}
	m := MatchSales(ledger, []SaleEvent{sell("2024-02-01", 60, 80)})
	if len(m.Allocations) != 1 {
		t.Fatalf("MatchSales() returned %d allocations, want 1", len(m.Allocations))
	}
	a := m.Allocations[0]
	if got, want := a.HoldingDays, 752; got != want {
		t.Errorf("HoldingDays = %d, want %d", got, want)
	}

	c := Classifier{Rates: table(t, RateInstrument, 7, obs("2024-02-01", 83)), LongTermDays: DefaultLongTermDays}
	g, err := c.Classify(a)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	testCases := []struct {
		name      string
		got, want Money
	}{
		{"sale value", g.SaleValueINR, INR(398400)},
		{"cost basis", g.CostBasisINR, INR(225000)},
		{"gain", g.GainINR, INR(173400)},
		{"gain in USD", g.GainUSD, USD(1800)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.got.Equal(tc.want) {
				t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
			}
		})
	}
	if g.Term != LongTerm {
		t.Errorf("Term = %v, want LONG_TERM", g.Term)
	}
}

func TestClassifyTerm(t *testing.T) {
	testCases := []struct {
		days int
		want Term
	}{
		{0, ShortTerm},
		{729, ShortTerm},
		{730, LongTerm},
		{731, LongTerm},
	}
	for _, tc := range testCases {
		t.Run(tc.want.String(), func(t *testing.T) {
			if got := ClassifyTerm(tc.days, DefaultLongTermDays); got != tc.want {
				t.Errorf("ClassifyTerm(%d) = %v, want %v", tc.days, got, tc.want)
			}
		})
	}
}

func TestClassifier_HoldingBoundary(t *testing.T) {
	// 2022-01-10 plus 730 days is 2024-01-10.
	ledger, _ := NewLedger([]VestingEvent{vest("2022-01-10", 10, 50, 75)})
	m := MatchSales(ledger, []SaleEvent{sell("2024-01-09", 1, 80), sell("2024-01-10", 1, 80)})
	c := Classifier{Rates: table(t, RateInstrument, 7, obs("2024-01-09", 83)), LongTermDays: DefaultLongTermDays}
	gains, failures := c.ClassifyAll(m.Allocations)
	if len(failures) != 0 {
		t.Fatalf("ClassifyAll() failures = %v", failures)
	}
	if gains[0].Allocation.HoldingDays != 729 || gains[0].Term != ShortTerm {
		t.Errorf("first sale: %d days %v, want 729 days SHORT_TERM", gains[0].Allocation.HoldingDays, gains[0].Term)
	}
	if gains[1].Allocation.HoldingDays != 730 || gains[1].Term != LongTerm {
		t.Errorf("second sale: %d days %v, want 730 days LONG_TERM", gains[1].Allocation.HoldingDays, gains[1].Term)
	}
}

func TestClassifier_MissingRate(t *testing.T) {
	ledger, _ := NewLedger([]VestingEvent{vest("2022-01-10", 10, 50, 75)})
	m := MatchSales(ledger, []SaleEvent{sell("2024-02-01", 5, 80)})
	c := Classifier{Rates: table(t, RateInstrument, 7, obs("2024-01-24", 83)), LongTermDays: DefaultLongTermDays}
	gains, failures := c.ClassifyAll(m.Allocations)
	if len(gains) != 0 {
		t.Errorf("ClassifyAll() = %v, want no record", gains)
	}
	if len(failures) != 1 || !errors.Is(failures[0], ErrNoDataInWindow) || failures[0].Date != d("2024-02-01") {
		t.Errorf("ClassifyAll() failures = %v, want one ErrNoDataInWindow on 2024-02-01", failures)
	}
}

func TestClassifier_MissingRateReportsEachSaleOnce(t *testing.T) {
	ledger, _ := NewLedger([]VestingEvent{vest("2022-01-10", 5, 50, 75), vest("2022-07-11", 5, 55, 79)})
	m := MatchSales(ledger, []SaleEvent{sell("2024-06-01", 8, 80)})
	if len(m.Allocations) != 2 {
		t.Fatalf("MatchSales() allocations = %d, want 2", len(m.Allocations))
	}
	c := Classifier{Rates: table(t, RateInstrument, 7, obs("2024-01-24", 83)), LongTermDays: DefaultLongTermDays}
	gains, failures := c.ClassifyAll(m.Allocations)
	if len(gains) != 0 {
		t.Errorf("ClassifyAll() = %v, want no record", gains)
	}
	if len(failures) != 1 || !errors.Is(failures[0], ErrNoDataInWindow) {
		t.Fatalf("ClassifyAll() failures = %v, want a single ErrNoDataInWindow", failures)
	}
	fy := SummarizeFinancialYear(2024, nil, gains, failures)
	if got, want := len(fy.Issues), 1; got != want {
		t.Errorf("FY2024-25 issues = %d, want %d", got, want)
	}
}
