package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
)

// GainsMarkdown renders the capital gains audit trail: one row per matched
// allocation. When years are given only the sales dated in those financial
// years are listed.
func GainsMarkdown(gains []equitywise.CapitalGainRecord, years ...date.FinancialYear) string {
	var b strings.Builder
	title := "Capital Gains"
	if len(years) == 1 {
		title += " " + years[0].String()
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	n := renderGains(&b, gains, years)
	if n == 0 {
		fmt.Fprint(&b, "No sale.\n")
	}
	return b.String()
}

// renderGains writes the gains table and returns the number of rows.
func renderGains(w io.Writer, gains []equitywise.CapitalGainRecord, years []date.FinancialYear) int {
	in := func(d date.Date) bool {
		if len(years) == 0 {
			return true
		}
		for _, fy := range years {
			if fy.Contains(d) {
				return true
			}
		}
		return false
	}

	rows := 0
	total := struct{ sale, cost, gain equitywise.Money }{equitywise.INR(0), equitywise.INR(0), equitywise.INR(0)}
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Sale Date | Stream | Grant | Vest Date | Quantity | Days | Term | USD/INR | Sale Value | Cost Basis | Gain |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|---:|---:|:---|---:|---:|---:|---:|")
		for _, g := range gains {
			a := g.Allocation
			if !in(a.Sale.Date) {
				continue
			}
			rows++
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %d | %s | %s | %s | %s | %s |\n",
				a.Sale.Date,
				streamName(a.Stream),
				cell(a.Grant),
				a.VestDate,
				a.Quantity,
				a.HoldingDays,
				g.Term,
				observed("%.4f", g.Rate, a.Sale.Date),
				g.SaleValueINR,
				g.CostBasisINR,
				g.GainINR.SignedString(),
			)
			total.sale = total.sale.Add(g.SaleValueINR)
			total.cost = total.cost.Add(g.CostBasisINR)
			total.gain = total.gain.Add(g.GainINR)
		}
		fmt.Fprintf(w, "| **Total** | | | | | | | | **%s** | **%s** | **%s** |\n\n", total.sale, total.cost, total.gain.SignedString())
		return rows > 0
	})
	return rows
}
