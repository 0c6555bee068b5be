package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type checkCmd struct {
	strict bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the dataset and report the records that cannot be computed" }
func (*checkCmd) Usage() string {
	return `ewt check [-strict]

  Loads and validates the dataset, then runs the computation and lists the
  sales that could not be matched or valued and the calendar years that could
  not be sampled. With -strict, any such issue is a failure.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "Fail when any record cannot be computed")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	res, err := s.compute(ctx)
	if err != nil {
		return fail(err)
	}

	issues := 0
	for _, failure := range res.Failures {
		issues++
		fmt.Fprintf(stdout, "%v\n", failure)
	}
	for _, fa := range res.FA {
		if fa.Err != nil {
			issues++
			fmt.Fprintf(stdout, "CY%d %q: %v\n", fa.Year, fa.Stream, fa.Err)
		}
	}
	fmt.Fprintf(stdout, "%d vest(s), %d sale(s), %d rate(s), %d price stream(s), %d remittance(s): %d issue(s)\n",
		len(s.ds.Vests), len(s.ds.Sales), len(s.ds.Rates), len(s.ds.Streams()), len(s.ds.Remittances), issues)
	if issues > 0 && c.strict {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
