package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
)

// RSUOptions holds configuration for rendering the RSU report.
type RSUOptions struct {
	Detailed bool // List every vest and every matched allocation.
}

// RSUMarkdown renders the financial year summaries of a computation. When
// years is empty every financial year of the result is rendered.
func RSUMarkdown(res *equitywise.Result, years []date.FinancialYear, opts RSUOptions) string {
	var b strings.Builder
	summaries := res.Years
	if len(years) > 0 {
		summaries = nil
		for _, fy := range years {
			if s, ok := res.Year(fy); ok {
				summaries = append(summaries, s)
			}
		}
	}
	if len(summaries) == 0 {
		fmt.Fprint(&b, "# RSU Report\n\nNo vest or sale in the selected financial years.\n")
		return b.String()
	}
	for _, s := range summaries {
		renderFYSummary(&b, s)
		if opts.Detailed {
			renderVests(&b, res.Vests, s.Year)
			ConditionalBlock(&b, func(w io.Writer) bool {
				fmt.Fprint(w, "## Sales\n\n")
				return renderGains(w, res.Gains, []date.FinancialYear{s.Year}) > 0
			})
		}
		renderFailures(&b, 2, s.Issues)
	}
	return b.String()
}

func renderFYSummary(w io.Writer, s equitywise.FYSummary) {
	fmt.Fprintf(w, "# RSU Report %s\n\n", s.Year)
	fmt.Fprintf(w, "From %s to %s.\n\n", s.Year.Start(), s.Year.End())
	if s.Incomplete {
		fmt.Fprintf(w, "> **Incomplete**: %d record(s) could not be computed, see the issues below.\n\n", len(s.Issues))
	}

	fmt.Fprint(w, "## Perquisite Income\n\n")
	fmt.Fprintln(w, "| Item | Value |")
	fmt.Fprintln(w, "|:---|---:|")
	fmt.Fprintf(w, "| Vesting events | %d |\n", s.Vests)
	fmt.Fprintf(w, "| Shares vested | %s |\n", s.VestedQuantity)
	fmt.Fprintf(w, "| Income (USD) | %s |\n", s.VestingIncomeUSD)
	fmt.Fprintf(w, "| Income (INR) | **%s** |\n", s.VestingIncomeINR)
	fmt.Fprintf(w, "| Taxes withheld (USD) | %s |\n\n", s.TaxesWithheld)

	fmt.Fprint(w, "## Capital Gains\n\n")
	fmt.Fprintln(w, "| Item | Value |")
	fmt.Fprintln(w, "|:---|---:|")
	fmt.Fprintf(w, "| Sales | %d |\n", s.Sales)
	fmt.Fprintf(w, "| Shares sold | %s |\n", s.SoldQuantity)
	fmt.Fprintf(w, "| Sale value | %s |\n", s.ProceedsINR)
	fmt.Fprintf(w, "| Cost basis | %s |\n", s.CostBasisINR)
	fmt.Fprintf(w, "| Short term | %s |\n", s.ShortTermINR.SignedString())
	fmt.Fprintf(w, "| Long term | %s |\n", s.LongTermINR.SignedString())
	fmt.Fprintf(w, "| **Total** | **%s** |\n\n", s.CapitalGainINR.SignedString())
}

func renderVests(w io.Writer, vests []equitywise.VestingEvent, fy date.FinancialYear) {
	ConditionalBlock(w, func(w io.Writer) bool {
		n := 0
		fmt.Fprint(w, "## Vests\n\n")
		fmt.Fprintln(w, "| Date | Stream | Grant | Quantity | FMV | USD/INR | Income | Withheld |")
		fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|---:|")
		for _, v := range vests {
			if !fy.Contains(v.Date) {
				continue
			}
			n++
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				v.Date, streamName(v.Stream), cell(v.Grant), v.Quantity, v.FMV, v.Rate, v.Income(), v.TaxesWithheld)
		}
		fmt.Fprintln(w)
		return n > 0
	})
}
