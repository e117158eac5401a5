package tracker

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Output targets that can be configured for an EpochLogger
const (
	TSV         = "tsv"
	Stdout      = "stdout"
	Pushgateway = "pushgateway"
)

// Statistics computed for each key when an epoch is dumped. The column
// of statistic s for key k is named k/s.
var statistics = []string{"mean", "std", "min", "max"}

// Config configures an EpochLogger
type Config struct {
	// Outputs lists the output targets: TSV, Stdout, or Pushgateway
	Outputs []string

	// Dir is the root log directory. TSV output is written to
	// Dir/GroupID/RunID.
	Dir string

	GroupID string
	RunID   string

	// PushgatewayURL is the URL of the Prometheus pushgateway used by
	// the Pushgateway output
	PushgatewayURL string
}

// RunDir returns the directory that the files of the run are written to
func (c Config) RunDir() string {
	return filepath.Join(c.Dir, c.GroupID, c.RunID)
}

// EpochLogger is a Tracker that aggregates the values stored during an
// epoch and writes their statistics to each of its outputs.
//
// The set of columns is fixed by the first epoch storing a value. Keys stored
// for the first time in a later epoch result in an error on Dump.
type EpochLogger struct {
	outputs []Output
	epoch   map[string][]float64
	columns []string
	keys    map[string]bool
	fixed   bool
}

// CheckOutputs returns an error if any of targets is not an output
// target. Targets needing a URL are only checked when the logger is
// created.
func CheckOutputs(targets []string) error {
	for _, target := range targets {
		switch target {
		case TSV, Stdout, Pushgateway:
		default:
			return fmt.Errorf("checkOutputs: no such output target %q", target)
		}
	}
	return nil
}

// NewEpochLogger creates an EpochLogger writing to the outputs listed in
// c. If runConfig is non-nil and TSV output is enabled, runConfig is
// saved as config.json next to the TSV file.
func NewEpochLogger(c Config, runConfig interface{}) (*EpochLogger, error) {
	outputs := make([]Output, 0, len(c.Outputs))
	closeAll := func() {
		for _, o := range outputs {
			o.Close()
		}
	}

	for _, target := range c.Outputs {
		var o Output
		var err error

		switch target {
		case TSV:
			o, err = newTSVOutput(c.RunDir(), runConfig)
		case Stdout:
			o = NewTableOutput(os.Stdout)
		case Pushgateway:
			o, err = NewPushgatewayOutput(c.PushgatewayURL, c.GroupID,
				c.RunID)
		default:
			err = fmt.Errorf("no such output target %q", target)
		}

		if err != nil {
			closeAll()
			return nil, fmt.Errorf("newEpochLogger: %w", err)
		}
		outputs = append(outputs, o)
	}

	return NewWithOutputs(outputs...), nil
}

// NewWithOutputs returns an EpochLogger writing to the given outputs
func NewWithOutputs(outputs ...Output) *EpochLogger {
	return &EpochLogger{
		outputs: outputs,
		epoch:   make(map[string][]float64),
	}
}

// Store records values under key for the current epoch
func (e *EpochLogger) Store(key string, values ...float64) {
	e.epoch[key] = append(e.epoch[key], values...)
}

// Dump computes the statistics of every key stored in the current
// epoch, writes them to each output, and starts a new epoch. Keys with
// no stored values are skipped. Until the columns are fixed, an epoch
// with no stored values writes nothing.
func (e *EpochLogger) Dump(step int) error {
	if !e.fixed {
		keys := make([]string, 0, len(e.epoch))
		for key, values := range e.epoch {
			if len(values) > 0 {
				keys = append(keys, key)
			}
		}
		if len(keys) == 0 {
			e.epoch = make(map[string][]float64)
			return nil
		}
		sort.Strings(keys)
		e.fixed = true

		e.keys = make(map[string]bool, len(keys))
		for _, key := range keys {
			e.keys[key] = true
			for _, s := range statistics {
				e.columns = append(e.columns, key+"/"+s)
			}
		}
	}

	row := make(map[string]float64, len(e.columns))
	for key, values := range e.epoch {
		if len(values) == 0 {
			continue
		}
		if !e.keys[key] {
			return fmt.Errorf("dump: key %q was not logged in the first "+
				"epoch", key)
		}

		mean := stat.Mean(values, nil)
		row[key+"/mean"] = mean
		row[key+"/std"] = math.Sqrt(stat.PopVariance(values, nil))
		row[key+"/min"] = floats.Min(values)
		row[key+"/max"] = floats.Max(values)
	}

	for _, o := range e.outputs {
		if err := o.Write(step, e.columns, row); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}

	e.epoch = make(map[string][]float64)
	return nil
}

// Close closes every output, returning the first error encountered
func (e *EpochLogger) Close() error {
	var first error
	for _, o := range e.outputs {
		if err := o.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// saveConfig saves runConfig as indented JSON in dir/config.json
func saveConfig(dir string, runConfig interface{}) error {
	data, err := json.MarshalIndent(runConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("saveConfig: could not encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}
