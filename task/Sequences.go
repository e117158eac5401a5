// Package task implements the task sequences that continual learning
// runs are trained on.
package task

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTaskSource is returned when a run names both a benchmark
	// sequence and an explicit task list, or neither of them.
	ErrTaskSource = errors.New("exactly one of tasks and task_list must " +
		"be set")

	// ErrUnknownSequence is returned when a benchmark name has no
	// registered task sequence.
	ErrUnknownSequence = errors.New("unknown task sequence")
)

// CW10 is the Continual World ten task sequence
var CW10 = []string{
	"hammer-v1",
	"push-wall-v1",
	"faucet-close-v1",
	"push-back-v1",
	"stick-pull-v1",
	"handle-press-side-v1",
	"push-v1",
	"shelf-place-v1",
	"window-close-v1",
	"peg-unplug-side-v1",
}

// sequences maps benchmark names to their task sequences
var sequences = map[string][]string{
	"CW5":  CW10[:5],
	"CW10": CW10,
	"CW20": append(append([]string{}, CW10...), CW10...),
}

// Sequence returns a copy of the task sequence registered under name
func Sequence(name string) ([]string, error) {
	seq, ok := sequences[name]
	if !ok {
		return nil, fmt.Errorf("sequence: %w %q", ErrUnknownSequence, name)
	}
	return append([]string{}, seq...), nil
}

// Names returns the sorted names of all registered task sequences
func Names() []string {
	names := make([]string, 0, len(sequences))
	for name := range sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the tasks of a run. Exactly one of name or list must
// be non-empty: a non-empty name is looked up as a benchmark sequence,
// otherwise list is returned as the explicit sequence.
func Resolve(name string, list []string) ([]string, error) {
	if (name == "") == (len(list) == 0) {
		return nil, fmt.Errorf("resolve: %w (tasks=%q, task_list=%v)",
			ErrTaskSource, name, list)
	}

	if name != "" {
		return Sequence(name)
	}
	return append([]string{}, list...), nil
}
