package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/equitywise/dataset"
	"github.com/google/subcommands"
)

type importCmd struct {
	dates  string
	values string
	layout string
	rate   bool
	price  bool
	stream string
	ticker string
	output string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge exchange rates or prices from a JSON export" }
func (*importCmd) Usage() string {
	return `ewt import -dates <jsonpath> -values <jsonpath> (-rate | -price [-stream <name>] [-ticker <symbol>]) [-o <file.jsonl>] <export.json>

  Extracts a date/value series from a JSON document and merges it into a
  dataset file. Observations already present on the same date are replaced.

Usage Examples:
# Daily closing prices from a chart API export.
$ ewt import -price -ticker ADBE -dates '$.chart.result[0].timestamp' -values '$.chart.result[0].indicators.quote[0].close' adbe.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dates, "dates", "", "JSONPath of the list of dates (strings or Unix timestamps)")
	f.StringVar(&c.values, "values", "", "JSONPath of the list of values")
	f.StringVar(&c.layout, "layout", "", "Go layout of the dates when they are strings, 2006-01-02 by default")
	f.BoolVar(&c.rate, "rate", false, "Import USD/INR exchange rates")
	f.BoolVar(&c.price, "price", false, "Import USD stock prices")
	f.StringVar(&c.stream, "stream", "", "Stream the prices belong to, the default stream by default")
	f.StringVar(&c.ticker, "ticker", "", "Ticker of the priced stock")
	f.StringVar(&c.output, "o", "", "Dataset file to merge into. Defaults to the configured dataset, or reference.jsonl in a dataset folder.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.dates == "" || c.values == "" || c.rate == c.price {
		fmt.Fprint(stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer in.Close()
	series, err := dataset.ImportSeries(in, dataset.SeriesSpec{Dates: c.dates, Values: c.values, Layout: c.layout})
	if err != nil {
		return fail(fmt.Errorf("cannot import %s: %w", f.Arg(0), err))
	}

	output, err := c.target()
	if err != nil {
		return fail(err)
	}
	ds := dataset.New()
	if data, err := os.ReadFile(output); err == nil {
		if ds, err = dataset.Decode(output, bytes.NewReader(data)); err != nil {
			return fail(err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fail(err)
	}

	if c.rate {
		ds.AddRates(series)
	} else {
		ds.AddPrices(c.stream, c.ticker, series)
	}
	if err := ds.Validate(); err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	if err := dataset.Encode(&buf, ds); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Merged %d observation(s) into %s\n", len(series), output)
	return subcommands.ExitSuccess
}

// target returns the dataset file to merge into.
func (c *importCmd) target() (string, error) {
	if c.output != "" {
		return c.output, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(cfg.Dataset); err == nil && info.IsDir() {
		return filepath.Join(cfg.Dataset, "reference.jsonl"), nil
	}
	return cfg.Dataset, nil
}
