package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/equitywise/renderer"
	"github.com/google/subcommands"
)

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "check bank remittances against the reference rate" }
func (*reconcileCmd) Usage() string {
	return `ewt reconcile

  Compares every remittance of the dataset with the amount expected at the
  bank rate, net of charges, and measures the impact of the bank rate against
  the reference USD/INR rate of the day.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	recs, err := s.engine.Reconcile(s.ds.Remittances)
	printMarkdown(renderer.ReconcileMarkdown(recs))
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	return subcommands.ExitSuccess
}
