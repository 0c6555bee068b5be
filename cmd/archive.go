package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/equitywise/archive"
	"github.com/google/subcommands"
)

type archiveCmd struct {
	label string
	list  bool
}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "store the computation in the SQLite archive" }
func (*archiveCmd) Usage() string {
	return `ewt archive [-label <name>] | -list

  Computes the dataset and stores the financial year summaries, the Foreign
  Assets summaries and every matched allocation in the archive database, so
  that the figures filed for a year can be audited later.
`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.label, "label", "", "Label of the archived run, e.g. 'filed FY2024-25'")
	f.BoolVar(&c.list, "list", false, "List the archived runs instead")
}

func (c *archiveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	a, err := archive.Open(cfg.Archive)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if c.list {
		runs, err := a.Runs(ctx)
		if err != nil {
			return fail(err)
		}
		for _, r := range runs {
			fmt.Fprintf(stdout, "%d\t%s\t%s\t%d vest(s)\t%d sale(s)\t%d failure(s)\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Label, r.Vests, r.Sales, r.Failures)
		}
		return subcommands.ExitSuccess
	}

	s, err := openSession()
	if err != nil {
		return fail(err)
	}
	res, err := s.compute(ctx)
	if err != nil {
		return fail(err)
	}
	run, err := a.Save(ctx, c.label, res)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Archived run %d in %s\n", run.ID, cfg.Archive)
	return subcommands.ExitSuccess
}
