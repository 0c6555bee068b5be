package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ptr returns a pointer to d, or nil for zero so that it is omitted.
func ptr(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}
	return &d
}

// lines converts the dataset back to its JSONL lines, sorted by date.
// Lines of the same date keep the order vest, sell, rate, price, remit.
func (ds *Dataset) lines() []line {
	var lines []line
	on := func(d date.Date) *date.Date { return &d }
	for _, v := range ds.Vests {
		q, fmv, rate := v.Quantity.Decimal(), v.FMV.Decimal(), v.Rate.Decimal()
		lines = append(lines, line{Command: CmdVest, On: on(v.Date), Stream: v.Stream, Grant: v.Grant, Source: v.Source,
			Quantity: &q, FMV: &fmv, Rate: &rate, Withheld: ptr(v.TaxesWithheld.Decimal())})
	}
	for _, s := range ds.Sales {
		q, price := s.Quantity.Decimal(), s.Price.Decimal()
		lines = append(lines, line{Command: CmdSell, On: on(s.Date), Stream: s.Stream, Order: s.Order,
			Quantity: &q, Price: &price, Proceeds: ptr(s.Proceeds.Decimal())})
	}
	for _, r := range ds.Rates {
		v := r.Value
		lines = append(lines, line{Command: CmdRate, On: on(r.Date), Value: &v})
	}
	for _, stream := range ds.Streams() {
		for _, p := range ds.Prices[stream] {
			v := p.Value
			lines = append(lines, line{Command: CmdPrice, On: on(p.Date), Stream: stream, Ticker: ds.Tickers[stream], Value: &v})
		}
	}
	for _, r := range ds.Remittances {
		usd, rate, received := r.BankUSD.Decimal(), r.BankRate.Decimal(), r.ReceivedINR.Decimal()
		lines = append(lines, line{Command: CmdRemit, On: on(r.Date), Ref: r.Reference,
			Expected: ptr(r.ExpectedUSD.Decimal()), USD: &usd, Rate: &rate, Charges: ptr(r.Charges.Decimal()), Received: &received})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].On.Before(*lines[j].On) })
	return lines
}

// Encode writes the dataset as JSONL, one record per line in date order.
func Encode(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, l := range ds.lines() {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("cannot encode %s of %v: %w", l.Command, l.On, err)
		}
	}
	return nil
}

// Merge appends the records of other to ds.
func (ds *Dataset) Merge(other *Dataset) {
	ds.Vests = append(ds.Vests, other.Vests...)
	ds.Sales = append(ds.Sales, other.Sales...)
	ds.Rates = append(ds.Rates, other.Rates...)
	for stream, prices := range other.Prices {
		ds.Prices[stream] = append(ds.Prices[stream], prices...)
	}
	for stream, ticker := range other.Tickers {
		ds.Tickers[stream] = ticker
	}
	ds.Remittances = append(ds.Remittances, other.Remittances...)
}

// AddRates appends exchange rates, replacing existing observations of the same date.
func (ds *Dataset) AddRates(series []equitywise.Observation) {
	ds.Rates = upsert(ds.Rates, series)
}

// AddPrices appends prices of a stream, replacing existing observations of the same date.
func (ds *Dataset) AddPrices(stream, ticker string, series []equitywise.Observation) {
	ds.Prices[stream] = upsert(ds.Prices[stream], series)
	if ticker != "" {
		ds.Tickers[stream] = ticker
	}
}

func upsert(into, series []equitywise.Observation) []equitywise.Observation {
	index := make(map[date.Date]int, len(into))
	for i, o := range into {
		index[o.Date] = i
	}
	for _, o := range series {
		if i, ok := index[o.Date]; ok {
			into[i] = o
			continue
		}
		index[o.Date] = len(into)
		into = append(into, o)
	}
	return into
}
