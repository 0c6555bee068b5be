package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
	"github.com/shopspring/decimal"
)

// SeriesSpec describes where a date/value series lives in a JSON document.
//
// Dates and Values are JSONPath expressions returning lists of the same
// length, for instance "$.chart.result[0].timestamp" and
// "$.chart.result[0].indicators.quote[0].close". Dates are either strings in
// Layout (date.DateFormat when empty) or Unix timestamps in seconds.
type SeriesSpec struct {
	Dates  string
	Values string
	Layout string
}

// ImportSeries extracts observations from a JSON document.
//
// null values (non trading days in most exports) are skipped. Several values
// on the same day keep the last one.
func ImportSeries(r io.Reader, spec SeriesSpec) ([]equitywise.Observation, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("not a correct json: %w", err)
	}
	dates, err := list(spec.Dates, jobj)
	if err != nil {
		return nil, err
	}
	values, err := list(spec.Values, jobj)
	if err != nil {
		return nil, err
	}
	if len(dates) != len(values) {
		return nil, fmt.Errorf("%q returned %d dates but %q %d values", spec.Dates, len(dates), spec.Values, len(values))
	}

	layout := spec.Layout
	if layout == "" {
		layout = date.DateFormat
	}
	var series date.History[decimal.Decimal]
	var errs []error
	for i := range dates {
		if values[i] == nil {
			continue
		}
		on, err := toDate(dates[i], layout)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		v, err := toDecimal(values[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d on %v: %w", i, on, err))
			continue
		}
		series.Append(on, v)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	var observations []equitywise.Observation
	for on, v := range series.Values() {
		observations = append(observations, equitywise.Observation{Date: on, Value: v})
	}
	return observations, nil
}

// list evaluates a JSONPath expression that must return a list.
func list(path string, jobj any) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// a path to an array returns the array itself, a wildcard returns the list of matches
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("%q does not return a list but %T", path, jval)
	}
	return jlist, nil
}

func toDate(v any, layout string) (date.Date, error) {
	switch v := v.(type) {
	case string:
		t, err := time.Parse(layout, v)
		if err != nil {
			return date.Date{}, fmt.Errorf("invalid date %q want format %q", v, layout)
		}
		return date.New(t.Date()), nil
	case json.Number:
		sec, err := v.Int64()
		if err != nil {
			return date.Date{}, fmt.Errorf("invalid timestamp %v: %w", v, err)
		}
		return date.New(time.Unix(sec, 0).UTC().Date()), nil
	default:
		return date.Date{}, fmt.Errorf("unsupported date %v of type %T", v, v)
	}
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported value %v of type %T", v, v)
	}
}
