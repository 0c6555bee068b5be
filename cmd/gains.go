package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/equitywise/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	fy string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "capital gains audit trail, one line per matched lot" }
func (*gainsCmd) Usage() string {
	return `ewt gains [-fy <FY2024-25>]

  Lists every allocation of a sale to a vested lot, with its holding period,
  the exchange rate applied, the sale value, the cost basis and the gain.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fy, "fy", "", "Comma separated financial years to list, all by default")
}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.GainsMarkdown(res.Gains, years...))
	if len(res.Failures) > 0 {
		fmt.Fprintf(stderr, "%d sale(s) could not be valued, see ewt rsu\n", len(res.Failures))
	}
	return subcommands.ExitSuccess
}
