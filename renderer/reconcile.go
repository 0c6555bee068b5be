package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/equitywise"
)

// ReconcileMarkdown renders the bank reconciliation of remittances.
func ReconcileMarkdown(recs []equitywise.Reconciliation) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Bank Reconciliation\n\n")
	if len(recs) == 0 {
		fmt.Fprint(&b, "No remittance.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Reference | Expected | Received USD | Shortfall | Bank Rate | Reference Rate | Gross | Charges | Net | Received | Delta | Rate Impact | Status |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|:---|")
	inaccurate := 0
	for _, r := range recs {
		rem := r.Remittance
		status := "ok"
		if !r.Accurate {
			status = "**mismatch**"
			inaccurate++
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			rem.Date, cell(rem.Reference),
			rem.ExpectedUSD, rem.BankUSD, r.ShortfallUSD.SignedString(),
			rem.BankRate, observed("%.4f", r.ReferenceRate, rem.Date),
			r.GrossINR, rem.Charges, r.NetINR, rem.ReceivedINR,
			r.DeltaINR.SignedString(), r.RateImpactINR.SignedString(),
			status,
		)
	}
	fmt.Fprintln(&b)
	if inaccurate > 0 {
		fmt.Fprintf(&b, "%d of %d remittance(s) differ from the bank statement by one rupee or more.\n", inaccurate, len(recs))
	}
	return b.String()
}
