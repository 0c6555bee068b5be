package equitywise

import "github.com/shopspring/decimal"

// Rate is an exchange rate in INR per USD.
type Rate struct {
	value decimal.Decimal
}

func R[T float64 | int | int64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) Equal(s Rate) bool        { return r.value.Equal(s.value) }
func (r Rate) IsPositive() bool         { return r.value.IsPositive() }
func (r Rate) IsZero() bool             { return r.value.IsZero() }
func (r Rate) String() string           { return r.value.StringFixed(4) }

// Sub returns the spread between two rates, in INR per USD.
func (r Rate) Sub(s Rate) Rate { return Rate{value: r.value.Sub(s.value)} }

func (r Rate) MarshalJSON() ([]byte, error) { return r.value.MarshalJSON() }
func (r *Rate) UnmarshalJSON(data []byte) error {
	return r.value.UnmarshalJSON(data)
}
