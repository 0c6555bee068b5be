package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/equitywise/date"
	"github.com/etnz/equitywise/renderer"
	"github.com/google/subcommands"
)

type rsuCmd struct {
	fy       string
	detailed bool
}

func (*rsuCmd) Name() string     { return "rsu" }
func (*rsuCmd) Synopsis() string { return "perquisite income and capital gains per financial year" }
func (*rsuCmd) Usage() string {
	return `ewt rsu [-fy <FY2024-25>[,<FY2023-24>...]] [-detailed]

  Totals the perquisite income of the vests and the capital gains of the
  sales of every Indian financial year (April to March).
`
}

func (c *rsuCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fy, "fy", "", "Comma separated financial years to report, all by default")
	f.BoolVar(&c.detailed, "detailed", false, "List every vest and every matched allocation")
}

func (c *rsuCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	years, err := parseFinancialYears(c.fy)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	res, err := s.compute(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RSUMarkdown(res, years, renderer.RSUOptions{Detailed: c.detailed}))
	return subcommands.ExitSuccess
}

// parseFinancialYears parses a comma separated list of financial years.
func parseFinancialYears(s string) ([]date.FinancialYear, error) {
	if s == "" {
		return nil, nil
	}
	var years []date.FinancialYear
	for _, label := range strings.Split(s, ",") {
		fy, err := date.ParseFinancialYear(strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		years = append(years, fy)
	}
	return years, nil
}
