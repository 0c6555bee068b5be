package equitywise

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Defaults of Config.
const (
	DefaultRateWindowDays  = 7
	DefaultPriceWindowDays = 15
	DefaultLongTermDays    = 730
	DefaultFAThresholdINR  = 200000
	DefaultSampling        = MonthEnd
)

// Config holds the tunables of the engine. The engine never reads files or
// the environment; see package config for that.
type Config struct {
	RateWindowDays  int             // backward fallback of exchange rates
	PriceWindowDays int             // backward fallback of stock prices
	LongTermDays    int             // holding period from which a gain is long term
	FAThreshold     decimal.Decimal // INR
	Sampling        Sampling
}

// DefaultConfig returns the statutory defaults.
func DefaultConfig() Config {
	return Config{
		RateWindowDays:  DefaultRateWindowDays,
		PriceWindowDays: DefaultPriceWindowDays,
		LongTermDays:    DefaultLongTermDays,
		FAThreshold:     decimal.NewFromInt(DefaultFAThresholdINR),
		Sampling:        DefaultSampling,
	}
}

// Threshold returns the FA threshold as money.
func (c Config) Threshold() Money { return INR(c.FAThreshold) }

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.RateWindowDays < 0 {
		errs = append(errs, fmt.Errorf("rate window must not be negative, got %d", c.RateWindowDays))
	}
	if c.PriceWindowDays < 0 {
		errs = append(errs, fmt.Errorf("price window must not be negative, got %d", c.PriceWindowDays))
	}
	if c.LongTermDays <= 0 {
		errs = append(errs, fmt.Errorf("long term holding period must be positive, got %d", c.LongTermDays))
	}
	if !c.FAThreshold.IsPositive() {
		errs = append(errs, fmt.Errorf("FA threshold must be positive, got %v", c.FAThreshold))
	}
	if c.Sampling != MonthEnd && c.Sampling != Daily {
		errs = append(errs, fmt.Errorf("unknown sampling %d", c.Sampling))
	}
	return errors.Join(errs...)
}
