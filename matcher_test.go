package equitywise

import (
	"errors"
	"testing"
)

func TestMatchSales_ProcessesSalesByDate(t *testing.T) {
	ledger, _ := NewLedger([]VestingEvent{
		vest("2022-01-10", 10, 50, 75),
		vest("2023-01-10", 10, 60, 81),
	})
	// Input order is not chronological.
	sales := []SaleEvent{
		sell("2023-06-01", 6, 90),
		sell("2022-06-01", 8, 70),
	}
	m := MatchSales(ledger, sales)
	if len(m.Failures) != 0 {
		t.Fatalf("MatchSales() failures = %v", m.Failures)
	}
	// The 2022 sale comes first and takes 8 of the 2022 lot, the 2023 sale
	// takes the 2 left and 4 of the 2023 lot.
	want := []struct {
		sale int
		vest string
		q    int
	}{{1, "2022-01-10", 8}, {0, "2022-01-10", 2}, {0, "2023-01-10", 4}}
	if len(m.Allocations) != len(want) {
		t.Fatalf("MatchSales() returned %d allocations, want %d", len(m.Allocations), len(want))
	}
	for i, w := range want {
		a := m.Allocations[i]
		if a.SaleIndex != w.sale || a.VestDate != d(w.vest) || !a.Quantity.Equal(Q(w.q)) {
			t.Errorf("allocation[%d] = sale %d %v×%v, want sale %d %v×%v", i, a.SaleIndex, a.VestDate, a.Quantity, w.sale, w.vest, w.q)
		}
	}
}

func TestMatchSales_Properties(t *testing.T) {
	vests := []VestingEvent{
		vest("2021-03-15", 12, 40, 73),
		vest("2021-09-15", 12, 45, 74),
		vest("2022-03-15", 12, 50, 76),
		vest("2022-03-15", 3, 50, 76),
		vest("2022-09-15", 12, 55, 80),
	}
	sales := []SaleEvent{
		sell("2021-10-01", 7, 50),
		sell("2022-04-01", 20, 60),
		sell("2022-10-01", 15, 65),
		sell("2023-01-02", 2, 70),
	}
	ledger, err := NewLedger(vests)
	if err != nil {
		t.Fatal(err)
	}
	m := MatchSales(ledger, sales)
	if len(m.Failures) != 0 {
		t.Fatalf("MatchSales() failures = %v", m.Failures)
	}

	// Every sale is fully covered, by lots in non decreasing vest date order.
	for i, s := range sales {
		var total Quantity
		var last Lot
		for _, a := range m.Allocations {
			if a.SaleIndex != i {
				continue
			}
			if a.VestDate.Before(last.Date) {
				t.Errorf("sale %d: lot of %v allocated after a lot of %v", i, a.VestDate, last.Date)
			}
			last = ledger.Lot(a.Lot)
			total = total.Add(a.Quantity)
		}
		if !total.Equal(s.Quantity) {
			t.Errorf("sale %d: allocated %v, want %v", i, total, s.Quantity)
		}
	}

	// Quantity is conserved lot by lot.
	for i, lot := range ledger.Lots() {
		var allocated Quantity
		for _, a := range m.Allocations {
			if a.Lot == i {
				allocated = allocated.Add(a.Quantity)
			}
		}
		if !lot.Sold().Equal(allocated) {
			t.Errorf("lot %d: original − remaining = %v, allocated %v", i, lot.Sold(), allocated)
		}
		if lot.Remaining.IsNegative() || lot.Remaining.GreaterThan(lot.Original) {
			t.Errorf("lot %d: remaining %v out of [0, %v]", i, lot.Remaining, lot.Original)
		}
	}
}

func TestMatchSales_FailureDoesNotStopLaterSales(t *testing.T) {
	ledger, _ := NewLedger([]VestingEvent{vest("2023-06-01", 10, 100, 82)})
	m := MatchSales(ledger, []SaleEvent{
		sell("2023-07-01", 15, 110),
		sell("2023-08-01", 5, 110),
	})
	if len(m.Failures) != 1 || !errors.Is(m.Failures[0], ErrInsufficientLots) {
		t.Fatalf("MatchSales() failures = %v, want one ErrInsufficientLots", m.Failures)
	}
	if m.Failures[0].Date != d("2023-07-01") {
		t.Errorf("failure date = %v, want 2023-07-01", m.Failures[0].Date)
	}
	if len(m.Allocations) != 1 || !m.Allocations[0].Quantity.Equal(Q(5)) {
		t.Errorf("MatchSales() allocations = %+v, want the second sale only", m.Allocations)
	}
}

func TestMatchSales_StreamsAreIndependent(t *testing.T) {
	a := vest("2023-01-01", 10, 100, 82)
	a.Stream = "etrade"
	b := vest("2022-01-01", 10, 100, 82)
	b.Stream = "schwab"
	s := sell("2023-06-01", 10, 120)
	s.Stream = "etrade"

	ledger, _ := NewLedger([]VestingEvent{a, b})
	m := MatchSales(ledger, []SaleEvent{s})
	if len(m.Allocations) != 1 || m.Allocations[0].Stream != "etrade" || m.Allocations[0].VestDate != d("2023-01-01") {
		t.Errorf("MatchSales() = %+v, want the etrade lot only", m.Allocations)
	}
	if got := ledger.Available("schwab", d("2023-06-01")); !got.Equal(Q(10)) {
		t.Errorf("schwab available = %v, want 10", got)
	}
}

func TestMatchSales_IDsAreStable(t *testing.T) {
	run := func() MatchedAllocation {
		ledger, _ := NewLedger([]VestingEvent{vest("2023-06-01", 10, 100, 82)})
		return MatchSales(ledger, []SaleEvent{sell("2023-07-01", 5, 110)}).Allocations[0]
	}
	if a, b := run(), run(); a.ID != b.ID {
		t.Errorf("allocation IDs differ between runs: %v and %v", a.ID, b.ID)
	}
}
