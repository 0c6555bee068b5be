package equitywise

import (
	"errors"
	"fmt"

	"github.com/etnz/equitywise/date"
)

// DefaultStream is the grant stream of events that do not name one.
const DefaultStream = ""

// VestingEvent records shares becoming the holder's property. It is both a
// perquisite income record and the origin of a Lot.
type VestingEvent struct {
	Stream        string    // grant stream, usually one brokerage account
	Grant         string    // grant identifier
	Date          date.Date // vest date
	Quantity      Quantity
	FMV           Money  // fair market value per share, in USD
	Rate          Rate   // INR per USD applied at vesting
	Source        string // source document reference
	TaxesWithheld Money  // optional, in USD
}

// IncomeUSD returns the value of the vested shares in USD.
func (v VestingEvent) IncomeUSD() Money { return v.FMV.Mul(v.Quantity) }

// Income returns the taxable perquisite in INR: quantity × FMV × rate.
func (v VestingEvent) Income() Money { return v.IncomeUSD().Convert(v.Rate) }

// UnitCostINR returns the INR cost basis of one share.
func (v VestingEvent) UnitCostINR() Money { return v.FMV.Convert(v.Rate) }

func (v VestingEvent) String() string {
	return fmt.Sprintf("vest %v %s×%v", v.Date, v.Quantity, v.Grant)
}

// Validate checks the event for values the engine cannot work with.
func (v VestingEvent) Validate() error {
	var errs []error
	if v.Date.IsZero() {
		errs = append(errs, fmt.Errorf("vest of grant %q has no date: %w", v.Grant, ErrInvalidDate))
	}
	if !v.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("vest of grant %q on %v: quantity %v must be positive: %w", v.Grant, v.Date, v.Quantity, ErrInvalidQuantity))
	}
	if v.FMV.IsNegative() {
		errs = append(errs, fmt.Errorf("vest of grant %q on %v: negative FMV %v: %w", v.Grant, v.Date, v.FMV, ErrInvalidQuantity))
	}
	if !v.Rate.IsPositive() {
		errs = append(errs, fmt.Errorf("vest of grant %q on %v: exchange rate %v must be positive: %w", v.Grant, v.Date, v.Rate, ErrInvalidQuantity))
	}
	return errors.Join(errs...)
}

// SaleEvent records shares sold.
type SaleEvent struct {
	Stream   string
	Date     date.Date
	Quantity Quantity
	Price    Money  // sale price per share, in USD
	Proceeds Money  // gross proceeds in USD, zero means Quantity × Price
	Order    string // brokerage order reference
}

// GrossProceeds returns Proceeds, or Quantity × Price when absent.
func (s SaleEvent) GrossProceeds() Money {
	if s.Proceeds.IsZero() {
		return s.Price.Mul(s.Quantity)
	}
	return s.Proceeds
}

func (s SaleEvent) String() string {
	if s.Order != "" {
		return fmt.Sprintf("sale %s of %v shares", s.Order, s.Quantity)
	}
	return fmt.Sprintf("sale of %v shares", s.Quantity)
}

// Validate checks the event for values the engine cannot work with.
func (s SaleEvent) Validate() error {
	var errs []error
	if s.Date.IsZero() {
		errs = append(errs, fmt.Errorf("%v has no date: %w", s, ErrInvalidDate))
	}
	if !s.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("%v on %v: quantity must be positive: %w", s, s.Date, ErrInvalidQuantity))
	}
	if s.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("%v on %v: negative price %v: %w", s, s.Date, s.Price, ErrInvalidQuantity))
	}
	return errors.Join(errs...)
}
