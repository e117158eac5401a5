// Command clsweep expands a registered sweep and submits its experiments
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/samuelfneumann/clworld/internal/cli"
	"github.com/samuelfneumann/clworld/sweep"
	"github.com/samuelfneumann/clworld/sweep/defs"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	fs := flag.NewFlagSet("clsweep", flag.ContinueOnError)
	fs.SetOutput(errW)
	fs.Usage = func() {
		fmt.Fprintf(errW, `
clsweep - Expand a sweep and submit its experiments.

Usage:
  clsweep -def NAME (-out DIR | -nats URL) [options]

Sweeps:
  %v

Options:
`, strings.Join(defs.Names(), "\n  "))
		fs.PrintDefaults()
	}

	defFlag := fs.String("def", "", "name of the sweep to submit")
	outFlag := fs.String("out", "", "directory to write experiment files to")
	natsFlag := fs.String("nats", "", "URL of the NATS server to publish to")
	subjectFlag := fs.String("subject", sweep.DefaultSubjectPrefix,
		"NATS subject prefix")
	previewFlag := fs.Bool("preview", true,
		"print the first and last grid entries")
	logLevelFlag := fs.String("log-level", "info",
		"logging level: 'debug', 'info', 'warn', or 'error'")

	if exit, err := cli.Parse(fs, args); exit || err != nil {
		return err
	}
	logger, err := cli.NewLogger(errW, *logLevelFlag)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if *defFlag == "" {
		return cli.Usage("-def is required, known sweeps are %v",
			defs.Names())
	}
	if (*outFlag == "") == (*natsFlag == "") {
		return cli.Usage("exactly one of -out and -nats is required")
	}

	def, err := defs.Get(*defFlag)
	if err != nil {
		return err
	}

	if *previewFlag {
		entries, err := def.Grid.Expand()
		if err != nil {
			return err
		}
		sweep.Preview(outW, entries)
	}

	experiments, err := sweep.Build(def)
	if err != nil {
		return err
	}

	var submitter sweep.Submitter
	if *outFlag != "" {
		submitter = sweep.FileSubmitter{Dir: *outFlag}
	} else {
		s, err := sweep.NewNATSSubmitter(*natsFlag, *subjectFlag)
		if err != nil {
			return err
		}
		defer s.Close()
		submitter = s
	}

	if err := submitter.Submit(ctx, experiments); err != nil {
		return err
	}
	slog.Info("Sweep submitted.", "name", def.Name, "experiments",
		len(experiments))
	return nil
}
