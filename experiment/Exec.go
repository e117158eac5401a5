package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/samuelfneumann/clworld/experiment/tracker"
	"github.com/samuelfneumann/clworld/sac"
	"github.com/samuelfneumann/clworld/utils/progressbar"
)

// SpecFile is the name of the file the RunSpec is handed to the trainer
// process in
const SpecFile = "spec.json"

// Event is a single message from the trainer process. The trainer writes
// one JSON encoded Event per line to its standard output.
type Event struct {
	// Step is the environment step the trainer has reached
	Step int `json:"step"`

	// Store holds values to record for the current epoch
	Store map[string][]float64 `json:"store,omitempty"`

	// Dump ends the current epoch, after Store has been recorded
	Dump bool `json:"dump,omitempty"`
}

// Exec is a Trainer that runs an external trainer process. The RunSpec
// is written to Dir/SpecFile and the path is passed to the process with
// the --spec flag. The process reports progress and metrics as Events on
// its standard output.
type Exec struct {
	Command []string
	Dir     string

	// Stderr receives the standard error of the process, os.Stderr if nil
	Stderr io.Writer

	// Progress receives a progress bar of the run, none if nil
	Progress io.Writer
}

// NewExec returns an Exec running command, writing its files into dir
func NewExec(command []string, dir string) (*Exec, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("newExec: no trainer command")
	}
	return &Exec{Command: append([]string{}, command...), Dir: dir}, nil
}

// Run runs the trainer process until it exits, forwarding the metrics it
// reports to t. Cancelling ctx kills the process.
func (e *Exec) Run(ctx context.Context, spec sac.RunSpec,
	t tracker.Tracker) error {
	specPath, err := e.writeSpec(spec)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	args := append(append([]string{}, e.Command[1:]...), "--spec", specPath)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Env = append(os.Environ(),
		"CLWORLD_GROUP_ID="+spec.GroupID,
		"CLWORLD_RUN_ID="+spec.RunID,
	)
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("run: could not start trainer: %w", err)
	}
	slog.Debug("Trainer started.", "command", e.Command, "spec", specPath,
		"pid", cmd.Process.Pid)

	var bar *progressbar.ManualProgressBar
	if e.Progress != nil {
		bar = progressbar.NewManualProgressBar(e.Progress, 50, spec.Steps)
		defer bar.Close()
	}

	if err := consume(stdout, t, bar); err != nil {
		// Stop the trainer so that Wait does not block on a process that
		// is still writing
		if killErr := cmd.Process.Kill(); killErr != nil {
			slog.Debug("Could not kill trainer.", "pid", cmd.Process.Pid,
				"error", killErr)
		}
		if waitErr := cmd.Wait(); waitErr != nil {
			slog.Debug("Trainer exited.", "pid", cmd.Process.Pid,
				"error", waitErr)
		}
		return fmt.Errorf("run: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("run: %w", ctxErr)
		}
		return fmt.Errorf("run: trainer failed: %w", err)
	}
	return nil
}

// writeSpec writes spec to e.Dir and returns the path of the file
func (e *Exec) writeSpec(spec sac.RunSpec) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("writeSpec: %w", err)
	}

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("writeSpec: could not encode spec: %w", err)
	}

	path := filepath.Join(e.Dir, SpecFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writeSpec: %w", err)
	}
	return path, nil
}

// consume decodes Events from r until EOF, forwarding them to t and
// advancing bar, if non-nil
func consume(r io.Reader, t tracker.Tracker, bar *progressbar.ManualProgressBar) error {
	dec := json.NewDecoder(r)
	for {
		var ev Event
		err := dec.Decode(&ev)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("consume: malformed trainer event: %w", err)
		}

		for key, values := range ev.Store {
			t.Store(key, values...)
		}
		if ev.Dump {
			if err := t.Dump(ev.Step); err != nil {
				return fmt.Errorf("consume: %w", err)
			}
		}

		if bar != nil {
			bar.SetProgress(ev.Step)
			bar.Display()
		}
	}
}
