package equitywise

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/equitywise/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Engine computes the RSU and Foreign Assets artifacts from vesting and sale
// events. An Engine is immutable and can run several computations
// concurrently.
type Engine struct {
	cfg          Config
	rates        Resolver
	prices       Resolver
	streamPrices map[string]Resolver
	years        []int
	asOf         date.Date
	log          zerolog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithStreamPrices uses r to price the shares of 'stream' instead of the
// default price resolver.
func WithStreamPrices(stream string, r Resolver) Option {
	return func(e *Engine) { e.streamPrices[stream] = r }
}

// WithCalendarYears computes the Foreign Assets of exactly these years, for
// every stream. A year without holdings gets an all zero summary.
//
// By default every year with holdings, from the first vest up to the as of
// date, is computed.
func WithCalendarYears(years ...int) Option {
	return func(e *Engine) {
		e.years = slices.Clone(years)
		slices.Sort(e.years)
		e.years = slices.Compact(e.years)
	}
}

// WithAsOf sets the date up to which holdings are followed when no calendar
// years are given. It defaults to today.
func WithAsOf(on date.Date) Option {
	return func(e *Engine) { e.asOf = on }
}

// NewEngine creates an engine using rates for USD/INR and prices for the
// stock price.
func NewEngine(cfg Config, rates, prices Resolver, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if rates == nil || prices == nil {
		return nil, errors.New("rate and price resolvers are required")
	}
	e := &Engine{cfg: cfg, streamPrices: make(map[string]Resolver), asOf: date.Today(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.rates = e.wrap(rates, RateInstrument)
	e.prices = e.wrap(prices, "price")
	for stream, r := range e.streamPrices {
		e.streamPrices[stream] = e.wrap(r, "price of "+stream)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) wrap(r Resolver, instrument string) Resolver {
	if t, ok := r.(*Table); ok {
		instrument = t.Instrument()
	}
	r = loggedResolver{r: r, instrument: instrument, log: e.log}
	if e.cfg.Sampling == Daily {
		r = NewCached(r)
	}
	return r
}

func (e *Engine) pricesFor(stream string) Resolver {
	if r, ok := e.streamPrices[stream]; ok {
		return r
	}
	return e.prices
}

// loggedResolver logs every fallback to an earlier observation.
type loggedResolver struct {
	r          Resolver
	instrument string
	log        zerolog.Logger
}

func (l loggedResolver) Resolve(on date.Date) (Observation, error) {
	obs, err := l.r.Resolve(on)
	if err == nil && obs.Date != on {
		l.log.Debug().
			Str("instrument", l.instrument).
			Stringer("requested", on).
			Stringer("resolved", obs.Date).
			Msg("fallback to an earlier observation")
	}
	return obs, err
}

// Result is the output of a computation.
type Result struct {
	Vests       []VestingEvent
	Sales       []SaleEvent
	Lots        []Lot // final state, indexed like MatchedAllocation.Lot
	Allocations []MatchedAllocation
	Gains       []CapitalGainRecord
	Failures    []Failure
	Years       []FYSummary            // sorted by financial year
	FA          []FADeclarationSummary // sorted by stream then year
}

// Year returns the summary of a financial year.
func (r *Result) Year(fy date.FinancialYear) (FYSummary, bool) {
	for _, s := range r.Years {
		if s.Year == fy {
			return s, true
		}
	}
	return FYSummary{}, false
}

// ForeignAssets returns the FA summaries of a calendar year, one per stream.
func (r *Result) ForeignAssets(year int) []FADeclarationSummary {
	var fa []FADeclarationSummary
	for _, s := range r.FA {
		if s.Year == year {
			fa = append(fa, s)
		}
	}
	return fa
}

// Compute runs the whole computation.
//
// Invalid vesting events abort the run. Sales that cannot be allocated or
// valued are reported in Failures and mark their financial year incomplete.
// A calendar year that cannot be valued carries its error in
// FADeclarationSummary.Err.
func (e *Engine) Compute(ctx context.Context, vests []VestingEvent, sales []SaleEvent) (*Result, error) {
	ledger, err := NewLedger(vests)
	if err != nil {
		return nil, err
	}
	matching := MatchSales(ledger, sales)
	classifier := Classifier{Rates: e.rates, LongTermDays: e.cfg.LongTermDays}
	gains, unvalued := classifier.ClassifyAll(matching.Allocations)
	failures := append(slices.Clone(matching.Failures), unvalued...)
	for _, f := range failures {
		e.log.Warn().Str("stream", f.Stream).Stringer("on", f.Date).Err(f.Err).Msg("record excluded")
	}

	res := &Result{
		Vests:       vests,
		Sales:       sales,
		Lots:        ledger.Lots(),
		Allocations: matching.Allocations,
		Gains:       gains,
		Failures:    failures,
	}

	// Every unit below reads the fully allocated ledger and nothing else is
	// shared, so financial and calendar years run in parallel.
	g, ctx := errgroup.WithContext(ctx)

	years := FinancialYears(vests, gains, failures)
	res.Years = make([]FYSummary, len(years))
	for i, fy := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := SummarizeFinancialYear(fy, vests, gains, failures)
			if s.Incomplete {
				e.log.Warn().Stringer("fy", fy).Int("issues", len(s.Issues)).Msg("financial year is incomplete")
			}
			res.Years[i] = s
			return nil
		})
	}

	type unit struct {
		timeline *Timeline
		year     int
	}
	var units []unit
	last := max(lastYear(vests, sales), e.asOf.Year())
	for _, stream := range ledger.Streams() {
		tl := NewTimeline(stream, res.Lots, matching.Allocations)
		for _, year := range e.calendarYears(tl, last) {
			units = append(units, unit{tl, year})
		}
	}
	res.FA = make([]FADeclarationSummary, len(units))
	threshold := e.cfg.Threshold()
	for i, u := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tracker := Tracker{Rates: e.rates, Prices: e.pricesFor(u.timeline.Stream()), Sampling: e.cfg.Sampling}
			s := ComputeFA(tracker, u.timeline, u.year, gains, threshold)
			if s.Err != nil {
				e.log.Warn().Str("stream", s.Stream).Int("cy", s.Year).Err(s.Err).Msg("calendar year is incomplete")
			}
			res.FA[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.log.Info().
		Int("vests", len(vests)).
		Int("sales", len(sales)).
		Int("allocations", len(res.Allocations)).
		Int("failures", len(failures)).
		Msg("computation done")
	return res, nil
}

// calendarYears returns the requested years, or by default the years up to
// 'last' during which the stream held shares.
func (e *Engine) calendarYears(tl *Timeline, last int) []int {
	if len(e.years) > 0 {
		return e.years
	}
	first := tl.First()
	if first.IsZero() {
		return nil
	}
	held := func(year int) bool {
		if !tl.QuantityOn(date.New(year, 1, 1)).IsZero() {
			return true
		}
		for _, i := range tl.Lots() {
			if tl.Lot(i).Date.Year() == year {
				return true
			}
		}
		return false
	}
	var years []int
	for y := first.Year(); y <= last; y++ {
		if held(y) {
			years = append(years, y)
		}
	}
	return years
}

func lastYear(vests []VestingEvent, sales []SaleEvent) int {
	last := 0
	for _, v := range vests {
		last = max(last, v.Date.Year())
	}
	for _, s := range sales {
		last = max(last, s.Date.Year())
	}
	return last
}

// Reconcile reconciles every remittance against the engine's exchange rates.
// Remittances that cannot be reconciled are skipped and reported in the error.
func (e *Engine) Reconcile(remittances []Remittance) ([]Reconciliation, error) {
	var recs []Reconciliation
	var errs []error
	for _, r := range remittances {
		rec, err := Reconcile(r, e.rates)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, errors.Join(errs...)
}
