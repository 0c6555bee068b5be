package equitywise

import (
	"errors"
	"fmt"

	"github.com/etnz/equitywise/date"
)

var (
	// ErrNoDataInWindow is returned when no rate or price observation exists
	// on the requested date or within the fallback window before it.
	ErrNoDataInWindow = errors.New("no data in window")
	// ErrInsufficientLots is returned when a sale requests more shares than
	// are vested and unsold on its date.
	ErrInsufficientLots = errors.New("insufficient lots")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidDate      = errors.New("invalid date")
)

// NoDataError details an ErrNoDataInWindow failure.
type NoDataError struct {
	Instrument string
	Date       date.Date
	Window     int
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no %s observation on %v or up to %d days before: %v", e.Instrument, e.Date, e.Window, ErrNoDataInWindow)
}

func (e *NoDataError) Unwrap() error { return ErrNoDataInWindow }

// InsufficientLotsError details an ErrInsufficientLots failure.
type InsufficientLotsError struct {
	Stream    string
	Date      date.Date
	Requested Quantity
	Available Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("sale of %v shares on %v in stream %q: only %v vested and unsold: %v", e.Requested, e.Date, e.Stream, e.Available, ErrInsufficientLots)
}

func (e *InsufficientLotsError) Unwrap() error { return ErrInsufficientLots }

// Failure ties an error to the record it was raised for, so that the year
// containing Date can be reported as incomplete.
type Failure struct {
	Date   date.Date
	Stream string
	Record string // human readable identification of the record
	Err    error
}

func (f Failure) Error() string {
	if f.Record == "" {
		return fmt.Sprintf("%v: %v", f.Date, f.Err)
	}
	return fmt.Sprintf("%v %s: %v", f.Date, f.Record, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }
