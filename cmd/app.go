// Package cmd implements the ewt command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/config"
	"github.com/etnz/equitywise/dataset"
	"github.com/etnz/equitywise/date"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&rsuCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&faCmd{}, "reports")
	c.Register(&reconcileCmd{}, "reports")

	c.Register(&checkCmd{}, "dataset")
	c.Register(&importCmd{}, "dataset")
	c.Register(&archiveCmd{}, "dataset")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the configuration file (TOML)")
var datasetPath = flag.String("dataset", "", "JSONL file or folder of the dataset. Overrides the configuration.")
var rawOutput = flag.Bool("raw", false, "Print markdown reports without terminal styling")

// stdout is where reports are printed, stderr where errors and logs go.
var stdout, stderr io.Writer = os.Stdout, os.Stderr

// today bounds the calendar years followed by default.
var today = date.Today

// loadConfig loads the configuration and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *datasetPath != "" {
		cfg.Dataset = *datasetPath
	}
	return cfg, nil
}

// session is what every report command needs: the configuration, the
// dataset and an engine over it.
type session struct {
	cfg    *config.Config
	ds     *dataset.Dataset
	engine *equitywise.Engine
}

func openSession(opts ...equitywise.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	core, err := cfg.Core()
	if err != nil {
		return nil, err
	}
	opts = append([]equitywise.Option{equitywise.WithLogger(cfg.Logger(stderr)), equitywise.WithAsOf(today())}, opts...)
	e, err := ds.Engine(core, opts...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, ds: ds, engine: e}, nil
}

func (s *session) compute(ctx context.Context) (*equitywise.Result, error) {
	return s.engine.Compute(ctx, s.ds.Vests, s.ds.Sales)
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
