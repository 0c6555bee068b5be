package equitywise

import (
	"fmt"

	"github.com/etnz/equitywise/date"
)

// Remittance is one transfer of sale proceeds to an Indian bank account, as
// already extracted from the bank statement.
type Remittance struct {
	Date        date.Date
	Reference   string
	ExpectedUSD Money // what the broker reported sending
	BankUSD     Money // USD amount the bank processed
	BankRate    Rate  // INR per USD applied by the bank
	Charges     Money // INR deducted by the bank (GST, fees)
	ReceivedINR Money // INR actually credited
}

// Reconciliation compares a remittance with what was expected.
type Reconciliation struct {
	Remittance    Remittance
	ReferenceRate Observation
	ShortfallUSD  Money // expected − bank
	GrossINR      Money // bank USD × bank rate
	NetINR        Money // gross − charges
	RateImpactINR Money // bank USD × (bank rate − reference rate)
	DeltaINR      Money // received − net
	Accurate      bool  // |delta| below one rupee
}

// Reconcile checks a remittance against the reference exchange rate of its date.
func Reconcile(r Remittance, rates Resolver) (Reconciliation, error) {
	ref, err := rates.Resolve(r.Date)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("cannot reconcile remittance %s on %v: %w", r.Reference, r.Date, err)
	}
	gross := r.BankUSD.Convert(r.BankRate)
	net := gross.Sub(r.Charges)
	delta := r.ReceivedINR.Sub(net)
	return Reconciliation{
		Remittance:    r,
		ReferenceRate: ref,
		ShortfallUSD:  r.ExpectedUSD.Sub(r.BankUSD),
		GrossINR:      gross,
		NetINR:        net,
		RateImpactINR: r.BankUSD.Convert(r.BankRate.Sub(R(ref.Value))),
		DeltaINR:      delta,
		Accurate:      delta.Abs().LessThan(INR(1)),
	}, nil
}
