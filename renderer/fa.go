package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/equitywise"
)

// FAOptions holds configuration for rendering the Foreign Assets report.
type FAOptions struct {
	Samples bool // List every balance sample of the year.
}

// FAMarkdown renders the Foreign Assets summaries, one section per stream
// and calendar year.
func FAMarkdown(summaries []equitywise.FADeclarationSummary, opts FAOptions) string {
	var b strings.Builder
	if len(summaries) == 0 {
		fmt.Fprint(&b, "# Foreign Assets\n\nNo shares held in the selected calendar years.\n")
		return b.String()
	}
	for _, s := range summaries {
		renderFA(&b, s, opts)
	}
	return b.String()
}

func renderFA(w io.Writer, s equitywise.FADeclarationSummary, opts FAOptions) {
	fmt.Fprintf(w, "# Foreign Assets CY%d\n\n", s.Year)
	fmt.Fprintf(w, "Stream: %s\n\n", streamName(s.Stream))
	if s.Err != nil {
		fmt.Fprintf(w, "> **Incomplete**: the year could not be valued: %s\n\n", cell(s.Err.Error()))
		return
	}

	d := s.Declaration
	if d.Required {
		fmt.Fprintf(w, "Declaration: **required**, the %s balance %s is above %s.\n\n", d.Basis, s.Peak.Value, d.Threshold)
	} else {
		fmt.Fprintf(w, "Declaration: not required, the %s balance %s does not exceed %s.\n\n", d.Basis, s.Peak.Value, d.Threshold)
	}

	fmt.Fprint(w, "## Balances\n\n")
	fmt.Fprintln(w, "| Balance | Date | Shares | Price | USD/INR | Value |")
	fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|")
	for _, row := range []struct {
		name   string
		sample equitywise.BalanceSample
	}{
		{"Opening", s.Opening},
		{"Peak", s.Peak},
		{"Closing", s.Closing},
	} {
		renderSample(w, row.name, row.sample)
	}
	fmt.Fprintln(w)

	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "## Lots\n\n")
		fmt.Fprintln(w, "| Grant | Vest Date | Initial Shares | Initial Value | Peak Shares | Peak Date | Peak Value | Closing Shares | Closing Value | Sold Shares | Proceeds |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|:---|---:|---:|---:|---:|---:|")
		for _, l := range s.Lots {
			peakDate := "-"
			if !l.PeakDate.IsZero() {
				peakDate = l.PeakDate.String()
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				cell(l.Grant), l.VestDate,
				l.InitialShares, l.InitialValueINR,
				l.PeakShares, peakDate, l.PeakValueINR,
				l.ClosingShares, l.ClosingValueINR,
				l.SoldShares, l.ProceedsINR,
			)
		}
		fmt.Fprintln(w)
		return len(s.Lots) > 0
	})

	if opts.Samples {
		fmt.Fprint(w, "## Samples\n\n")
		fmt.Fprintln(w, "| Sample | Date | Shares | Price | USD/INR | Value |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|")
		for i, sample := range s.Samples {
			renderSample(w, fmt.Sprint(i+1), sample)
		}
		fmt.Fprintln(w)
	}
}

func renderSample(w io.Writer, name string, s equitywise.BalanceSample) {
	if s.Quantity.IsZero() {
		fmt.Fprintf(w, "| %s | %s | 0 | - | - | %s |\n", name, s.Date, s.Value)
		return
	}
	fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
		name, s.Date, s.Quantity,
		observed("$%.2f", s.Price, s.Date),
		observed("%.4f", s.Rate, s.Date),
		s.Value,
	)
}
