// Command clrun trains a single continual learning run
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/oklog/ulid/v2"
	"github.com/samuelfneumann/clworld/config"
	"github.com/samuelfneumann/clworld/experiment"
	"github.com/samuelfneumann/clworld/experiment/tracker"
	"github.com/samuelfneumann/clworld/internal/cli"
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

// options holds the flags of clrun that are not run options
type options struct {
	configPath string
	dryRun     bool
	logLevel   string
}

func newFlagSet(c *config.Config, o *options, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("clrun", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		fmt.Fprint(w, `
clrun - Train a single continual learning run.

Usage:
  clrun [options]

Options given as flags override those in the -config file, which
override the defaults.

Options:
`)
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "", "YAML file of run options")
	fs.BoolVar(&o.dryRun, "dry-run", false,
		"print the run spec as JSON and exit")
	fs.StringVar(&o.logLevel, "log-level", "info",
		"logging level: 'debug', 'info', 'warn', or 'error'")
	config.Bind(fs, c)
	return fs
}

// parse returns the run options given by args
func parse(args []string, w io.Writer) (config.Config, options, bool, error) {
	c := config.Defaults()
	var o options
	if exit, err := cli.Parse(newFlagSet(&c, &o, w), args); exit || err != nil {
		return c, o, exit, err
	}
	if o.configPath == "" {
		return c, o, false, nil
	}

	// Parse again over the file so that flags take precedence
	loaded, err := config.Load(o.configPath)
	if err != nil {
		return c, o, false, err
	}
	if _, err := cli.Parse(newFlagSet(&loaded, &o, io.Discard),
		args); err != nil {
		return c, o, false, err
	}
	return loaded, o, false, nil
}

func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	c, o, exit, err := parse(args, errW)
	if err != nil || exit {
		return err
	}

	logger, err := cli.NewLogger(errW, o.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	c.ApplyEnv()
	runID := c.RunID
	if runID == "" {
		runID = ulid.Make().String()
	}

	if o.dryRun {
		spec, err := experiment.Build(c, runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(outW)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	}

	trackerConfig := tracker.Config{
		Outputs:        c.LoggerOutput,
		Dir:            c.LogDir,
		GroupID:        c.GroupID,
		RunID:          runID,
		PushgatewayURL: c.PushgatewayURL,
	}
	epochLogger, err := tracker.NewEpochLogger(trackerConfig, c)
	if err != nil {
		return err
	}

	trainer, err := experiment.NewExec(c.TrainerCommand,
		trackerConfig.RunDir())
	if err != nil {
		epochLogger.Close()
		return err
	}
	trainer.Stderr = errW
	trainer.Progress = errW

	runErr := experiment.Run(ctx, c, runID, trainer, epochLogger)
	if err := epochLogger.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
