package sweep

import (
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samuelfneumann/clworld/config"
	"github.com/samuelfneumann/clworld/experiment"
	"github.com/samuelfneumann/clworld/experiment/tracker"
)

// DefaultScript is the command an experiment-running service uses to
// launch a single run. The run's options are passed as a YAML file.
const DefaultScript = "clrun -config"

// Definition describes a sweep
type Definition struct {
	Name    string
	Project string
	Script  string
	Tags    []string

	// Base holds the options shared by every run, merged over the
	// default options
	Base map[string]interface{}

	// Grid holds the options varied between runs
	Grid Grid
}

// Experiment is a single run of a sweep, ready for submission. Params
// holds every run option, with run_id set to ID.
type Experiment struct {
	ID      string                 `yaml:"id" json:"id"`
	Name    string                 `yaml:"name" json:"name"`
	Project string                 `yaml:"project" json:"project"`
	Script  string                 `yaml:"script" json:"script"`
	Tags    []string               `yaml:"tags" json:"tags"`
	Params  map[string]interface{} `yaml:"params" json:"params"`
}

// Build expands the Grid of def into experiments. The parameters of each
// experiment are its grid entry merged over def.Base merged over the
// default options. Every experiment is checked to build a valid run
// before any are returned.
func Build(def Definition) ([]Experiment, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("build: sweep has no name")
	}

	defaults, err := config.ToMap(config.Defaults())
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	base := config.Merge(defaults, def.Base)

	entries, err := def.Grid.Expand()
	if err != nil {
		return nil, fmt.Errorf("build: %v: %w", def.Name, err)
	}

	script := def.Script
	if script == "" {
		script = DefaultScript
	}

	experiments := make([]Experiment, len(entries))
	for i, entry := range entries {
		id := ulid.Make().String()
		params := config.Merge(base, entry)
		params["run_id"] = id

		c, err := config.FromMap(params)
		if err != nil {
			return nil, fmt.Errorf("build: %v: entry %v: %w", def.Name, i, err)
		}
		if err := tracker.CheckOutputs(c.LoggerOutput); err != nil {
			return nil, fmt.Errorf("build: %v: entry %v: %w", def.Name, i, err)
		}
		if _, err := experiment.Build(c, id); err != nil {
			return nil, fmt.Errorf("build: %v: entry %v: %w", def.Name, i, err)
		}

		experiments[i] = Experiment{
			ID:      id,
			Name:    def.Name,
			Project: def.Project,
			Script:  script,
			Tags:    append([]string{}, def.Tags...),
			Params:  params,
		}
	}

	slog.Info("Sweep built.", "name", def.Name, "experiments",
		len(experiments))
	return experiments, nil
}
