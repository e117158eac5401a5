// Package sweep generates grids of run configurations and hands them to
// an experiment-running service
package sweep

import (
	"fmt"
	"io"
	"sort"
)

// Axis maps option names to the candidate values the option takes in
// a sweep
type Axis map[string][]interface{}

// Grid is an ordered list of Axis maps. Each Axis is expanded into the
// cartesian product of its candidate values, and the expansions of all
// Axis maps are concatenated.
type Grid []Axis

// Entry is a single concrete assignment of values to options
type Entry map[string]interface{}

// Len returns the number of entries the Grid expands into
func (g Grid) Len() int {
	total := 0
	for _, axis := range g {
		total += axis.Len()
	}
	return total
}

// Expand returns every concrete entry of the Grid
func (g Grid) Expand() ([]Entry, error) {
	entries := make([]Entry, 0, g.Len())
	for i, axis := range g {
		expanded, err := axis.Expand()
		if err != nil {
			return nil, fmt.Errorf("expand: axis %v: %w", i, err)
		}
		entries = append(entries, expanded...)
	}
	return entries, nil
}

// Len returns the number of entries the Axis expands into
func (a Axis) Len() int {
	total := 1
	for _, values := range a {
		total *= len(values)
	}
	return total
}

// Expand returns the cartesian product of the candidate values of the
// Axis. Options are iterated in sorted order, with the last option
// changing fastest. An Axis with no options expands into a single empty
// entry.
func (a Axis) Expand() ([]Entry, error) {
	keys := make([]string, 0, len(a))
	for key, values := range a {
		if len(values) == 0 {
			return nil, fmt.Errorf("expand: option %v has no candidate values",
				key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, a.Len())
	for setting := 0; setting < a.Len(); setting++ {
		entry := make(Entry, len(keys))

		// Decode the setting number as a mixed-radix index, one digit
		// per option
		index := setting
		for j := len(keys) - 1; j >= 0; j-- {
			values := a[keys[j]]
			entry[keys[j]] = values[index%len(values)]
			index /= len(values)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Transfer returns a Grid with one Axis per setting, task pair, and
// seed repetition. Each Axis is the setting with task_list set to the
// pair and seed set to a counter that is incremented across the whole
// grid, so no two entries share a seed.
func Transfer(settings []Axis, pairs [][]string, numSeeds int) Grid {
	grid := make(Grid, 0, len(settings)*len(pairs)*numSeeds)
	seed := 0
	for _, setting := range settings {
		for _, pair := range pairs {
			for i := 0; i < numSeeds; i++ {
				axis := make(Axis, len(setting)+2)
				for key, values := range setting {
					axis[key] = values
				}
				axis["task_list"] = []interface{}{append([]string{}, pair...)}
				axis["seed"] = []interface{}{seed}
				grid = append(grid, axis)
				seed++
			}
		}
	}
	return grid
}

// previewLen is the number of entries Preview prints from each end
const previewLen = 10

// Preview prints the first and last entries to w
func Preview(w io.Writer, entries []Entry) {
	if len(entries) <= 2*previewLen {
		fmt.Fprintln(w, entries)
		return
	}
	fmt.Fprintln(w, entries[:previewLen], entries[len(entries)-previewLen:])
}
