package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/renderer"
	"github.com/google/subcommands"
)

type faCmd struct {
	cy       string
	detailed bool
	chart    string
}

func (*faCmd) Name() string     { return "fa" }
func (*faCmd) Synopsis() string { return "Foreign Assets balances and declaration per calendar year" }
func (*faCmd) Usage() string {
	return `ewt fa [-cy <2024>[,<2023>...]] [-detailed] [-chart <file.png>]

  Samples the shares held during every calendar year, values them in INR and
  reports the opening, peak and closing balances. A declaration is required
  when the peak balance is above the configured threshold.
`
}

func (c *faCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cy, "cy", "", "Comma separated calendar years, every year with holdings by default")
	f.BoolVar(&c.detailed, "detailed", false, "List every balance sample")
	f.StringVar(&c.chart, "chart", "", "Write a PNG chart of the balances of a single year and stream to this file")
}

func (c *faCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var opts []equitywise.Option
	if c.cy != "" {
		var years []int
		for _, s := range strings.Split(c.cy, ",") {
			y, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				fmt.Fprintf(stderr, "invalid calendar year %q\n", s)
				return subcommands.ExitUsageError
			}
			years = append(years, y)
		}
		opts = append(opts, equitywise.WithCalendarYears(years...))
	}
	s, err := openSession(opts...)
	if err != nil {
		return fail(err)
	}
	res, err := s.compute(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.FAMarkdown(res.FA, renderer.FAOptions{Samples: c.detailed}))

	if c.chart == "" {
		return subcommands.ExitSuccess
	}
	if len(res.FA) != 1 {
		return fail(fmt.Errorf("-chart needs exactly one calendar year and stream, got %d", len(res.FA)))
	}
	out, err := os.Create(c.chart)
	if err != nil {
		return fail(err)
	}
	defer out.Close()
	if err := renderer.BalanceChart(out, res.FA[0]); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
