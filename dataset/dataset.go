// Package dataset loads the records the engine works on from JSONL files.
//
// Every line is a JSON object with a "command" naming the record type and an
// "on" date:
//
//	{"command":"vest","on":"2022-01-10","grant":"RSU-1001","quantity":100,"fmv":50,"rate":75}
//	{"command":"sell","on":"2024-02-01","quantity":60,"price":80,"order":"ORD-17"}
//	{"command":"rate","on":"2024-02-01","value":83}
//	{"command":"price","on":"2024-02-01","ticker":"ADBE","value":80}
//	{"command":"remit","on":"2024-02-05","usd":4790,"rate":83.4,"charges":236,"received":399250}
//
// vest, sell and price accept an optional "stream" naming the brokerage
// account; lines without it belong to the default stream.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
	"github.com/shopspring/decimal"
)

// Command discriminates the records of a dataset.
type Command string

const (
	CmdVest   Command = "vest"
	CmdSell   Command = "sell"
	CmdRate   Command = "rate"
	CmdPrice  Command = "price"
	CmdRemit  Command = "remit"
	attrOn            = "on"
	filesGlob         = "*.jsonl"
)

// Dataset holds every record of a run.
type Dataset struct {
	Vests       []equitywise.VestingEvent
	Sales       []equitywise.SaleEvent
	Rates       []equitywise.Observation
	Prices      map[string][]equitywise.Observation // by stream
	Tickers     map[string]string                   // by stream
	Remittances []equitywise.Remittance
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{Prices: make(map[string][]equitywise.Observation), Tickers: make(map[string]string)}
}

// line is the union of the attributes of every command.
type line struct {
	Command  Command          `json:"command"`
	On       *date.Date       `json:"on"`
	Stream   string           `json:"stream,omitempty"`
	Grant    string           `json:"grant,omitempty"`
	Source   string           `json:"source,omitempty"`
	Order    string           `json:"order,omitempty"`
	Ticker   string           `json:"ticker,omitempty"`
	Ref      string           `json:"reference,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	FMV      *decimal.Decimal `json:"fmv,omitempty"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Withheld *decimal.Decimal `json:"withheld,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Proceeds *decimal.Decimal `json:"proceeds,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
	Expected *decimal.Decimal `json:"expected,omitempty"`
	USD      *decimal.Decimal `json:"usd,omitempty"`
	Charges  *decimal.Decimal `json:"charges,omitempty"`
	Received *decimal.Decimal `json:"received,omitempty"`
}

// dec returns the value or zero when absent.
func dec(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// required checks that every named attribute is present.
func (l line) required(attrs map[string]*decimal.Decimal) error {
	var missing []string
	for name, v := range attrs {
		if v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%s requires %s", l.Command, strings.Join(missing, ", "))
}

// add appends the record of a decoded line.
func (ds *Dataset) add(l line) error {
	if l.On == nil {
		return fmt.Errorf("missing the property %q with a date", attrOn)
	}
	on := *l.On
	switch l.Command {
	case CmdVest:
		if err := l.required(map[string]*decimal.Decimal{"quantity": l.Quantity, "fmv": l.FMV, "rate": l.Rate}); err != nil {
			return err
		}
		ds.Vests = append(ds.Vests, equitywise.VestingEvent{
			Stream:        l.Stream,
			Grant:         l.Grant,
			Date:          on,
			Quantity:      equitywise.Q(*l.Quantity),
			FMV:           equitywise.USD(*l.FMV),
			Rate:          equitywise.R(*l.Rate),
			Source:        l.Source,
			TaxesWithheld: equitywise.USD(dec(l.Withheld)),
		})
	case CmdSell:
		if err := l.required(map[string]*decimal.Decimal{"quantity": l.Quantity, "price": l.Price}); err != nil {
			return err
		}
		ds.Sales = append(ds.Sales, equitywise.SaleEvent{
			Stream:   l.Stream,
			Date:     on,
			Quantity: equitywise.Q(*l.Quantity),
			Price:    equitywise.USD(*l.Price),
			Proceeds: equitywise.USD(dec(l.Proceeds)),
			Order:    l.Order,
		})
	case CmdRate:
		if err := l.required(map[string]*decimal.Decimal{"value": l.Value}); err != nil {
			return err
		}
		ds.Rates = append(ds.Rates, equitywise.Observation{Date: on, Value: *l.Value})
	case CmdPrice:
		if err := l.required(map[string]*decimal.Decimal{"value": l.Value}); err != nil {
			return err
		}
		ds.Prices[l.Stream] = append(ds.Prices[l.Stream], equitywise.Observation{Date: on, Value: *l.Value})
		if l.Ticker != "" {
			if t, ok := ds.Tickers[l.Stream]; ok && t != l.Ticker {
				return fmt.Errorf("stream %q is priced as %q and %q", l.Stream, t, l.Ticker)
			}
			ds.Tickers[l.Stream] = l.Ticker
		}
	case CmdRemit:
		if err := l.required(map[string]*decimal.Decimal{"usd": l.USD, "rate": l.Rate, "received": l.Received}); err != nil {
			return err
		}
		ds.Remittances = append(ds.Remittances, equitywise.Remittance{
			Date:        on,
			Reference:   l.Ref,
			ExpectedUSD: equitywise.USD(dec(l.Expected)),
			BankUSD:     equitywise.USD(*l.USD),
			BankRate:    equitywise.R(*l.Rate),
			Charges:     equitywise.INR(dec(l.Charges)),
			ReceivedINR: equitywise.INR(*l.Received),
		})
	default:
		return fmt.Errorf("unknown command: %q", l.Command)
	}
	return nil
}

// Decode reads JSONL records from r. name is used in error messages only.
// Every faulty line is reported, not only the first one.
func (ds *Dataset) Decode(name string, r io.Reader) error {
	var errs []error
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		txt := strings.TrimSpace(scanner.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(txt), &l); err != nil {
			errs = append(errs, fmt.Errorf("parse error %s:%d: not a correct json: %w", name, i, err))
			continue
		}
		if err := ds.add(l); err != nil {
			errs = append(errs, fmt.Errorf("parse error %s:%d: %w", name, i, err))
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading %s: %w", name, err))
	}
	return errors.Join(errs...)
}

// Decode reads a dataset from a single JSONL stream.
func Decode(name string, r io.Reader) (*Dataset, error) {
	ds := New()
	if err := ds.Decode(name, r); err != nil {
		return nil, err
	}
	return ds, nil
}

// Load reads a JSONL file, or every *.jsonl file of a folder, and validates
// the result.
func Load(path string) (*Dataset, error) {
	filenames := []string{path}
	if info, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load error: %w", err)
	} else if info.IsDir() {
		if filenames, err = filepath.Glob(filepath.Join(path, filesGlob)); err != nil {
			return nil, fmt.Errorf("load error: cannot scan folder %q: %w", path, err)
		}
	}
	ds := New()
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("load error: cannot open %q for reading: %w", filename, err)
		}
		err = ds.Decode(filename, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks what the engine assumes of its input: positive
// quantities, rates and prices, and at most one observation per date and
// instrument.
func (ds *Dataset) Validate() error {
	var errs []error
	for _, v := range ds.Vests {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range ds.Sales {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, validateSeries(equitywise.RateInstrument, ds.Rates)...)
	for _, stream := range ds.Streams() {
		errs = append(errs, validateSeries(ds.Ticker(stream), ds.Prices[stream])...)
	}
	for _, r := range ds.Remittances {
		if !r.BankRate.IsPositive() {
			errs = append(errs, fmt.Errorf("remittance on %v: rate must be positive: %w", r.Date, equitywise.ErrInvalidQuantity))
		}
	}
	return errors.Join(errs...)
}

func validateSeries(instrument string, series []equitywise.Observation) []error {
	var errs []error
	seen := make(map[date.Date]bool, len(series))
	for _, o := range series {
		if seen[o.Date] {
			errs = append(errs, fmt.Errorf("%s: duplicate observation on %v: %w", instrument, o.Date, equitywise.ErrInvalidDate))
		}
		seen[o.Date] = true
		if !o.Value.IsPositive() {
			errs = append(errs, fmt.Errorf("%s: observation on %v must be positive, got %v: %w", instrument, o.Date, o.Value, equitywise.ErrInvalidQuantity))
		}
	}
	return errs
}

// Streams returns the streams that have prices, sorted.
func (ds *Dataset) Streams() []string {
	var streams []string
	for s := range ds.Prices {
		streams = append(streams, s)
	}
	slices.Sort(streams)
	return streams
}

// Ticker returns the ticker of a stream, or a generic name.
func (ds *Dataset) Ticker(stream string) string {
	if t, ok := ds.Tickers[stream]; ok {
		return t
	}
	if stream == "" {
		return "stock"
	}
	return "stock of " + stream
}

// RateTable builds the exchange rate resolver.
func (ds *Dataset) RateTable(window int) (*equitywise.Table, error) {
	return equitywise.NewRateTable(window, ds.Rates)
}

// PriceTables builds the price resolver of every stream.
func (ds *Dataset) PriceTables(window int) (map[string]*equitywise.Table, error) {
	tables := make(map[string]*equitywise.Table)
	for _, stream := range ds.Streams() {
		t, err := equitywise.NewPriceTable(ds.Ticker(stream), window, ds.Prices[stream])
		if err != nil {
			return nil, err
		}
		tables[stream] = t
	}
	return tables, nil
}

// Engine builds an engine over the dataset's reference data. Streams
// without prices of their own use the prices of the default stream.
func (ds *Dataset) Engine(cfg equitywise.Config, opts ...equitywise.Option) (*equitywise.Engine, error) {
	rates, err := ds.RateTable(cfg.RateWindowDays)
	if err != nil {
		return nil, err
	}
	prices, err := ds.PriceTables(cfg.PriceWindowDays)
	if err != nil {
		return nil, err
	}
	def, ok := prices[equitywise.DefaultStream]
	if !ok {
		def, _ = equitywise.NewPriceTable(ds.Ticker(equitywise.DefaultStream), cfg.PriceWindowDays, nil)
	}
	for stream, t := range prices {
		if stream != equitywise.DefaultStream {
			opts = append(opts, equitywise.WithStreamPrices(stream, t))
		}
	}
	return equitywise.NewEngine(cfg, rates, def, opts...)
}
