// Package defs holds the registered sweep definitions.
//
// Every registered sweep logs to the pushgateway output target. The
// pushgateway URL differs between the hosts that run experiments, so no
// sweep sets pushgateway_url. Each launched run reads it from the
// CLWORLD_PUSHGATEWAY_URL environment variable, and fails when creating
// its logger if the variable is unset.
package defs

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/clworld/experiment/tracker"
	"github.com/samuelfneumann/clworld/sweep"
	"github.com/samuelfneumann/clworld/task"
)

// registered maps sweep names to functions that construct them
var registered = map[string]func() sweep.Definition{
	"paper_single_exps":                PaperSingle,
	"matrix_transfer_single_component": MatrixTransferSingleComponent,
}

// Get returns the registered sweep called name
func Get(name string) (sweep.Definition, error) {
	def, ok := registered[name]
	if !ok {
		return sweep.Definition{}, fmt.Errorf("get: no sweep called %q, "+
			"known sweeps are %v", name, Names())
	}
	return def(), nil
}

// Names returns the names of all registered sweeps in sorted order
func Names() []string {
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PaperSingle runs the CW5 sequence with the default options. Runs need
// CLWORLD_PUSHGATEWAY_URL set.
func PaperSingle() sweep.Definition {
	const name = "paper_single_exps"
	return sweep.Definition{
		Name:    name,
		Project: "arczi21/continualworld",
		Tags:    []string{name, "v6", "sac"},
		Base: map[string]interface{}{
			"run_kind":      "cl",
			"logger_output": []string{tracker.TSV, tracker.Pushgateway},
		},
		Grid: sweep.Grid{{
			"seed":  {0},
			"tasks": {"CW5"},
		}},
	}
}

// transferTasks are the tasks paired up in MatrixTransferSingleComponent
var transferTasks = []string{
	"push-back-v1",
	"push-v1",
	"shelf-place-v1",
	"peg-unplug-side-v1",
}

// transferSeeds is the number of seeds run per setting and task pair
const transferSeeds = 20

// MatrixTransferSingleComponent measures forward transfer between every
// ordered pair of tasks when a single component of the agent is kept
// across the task change and everything else is reset. Runs need
// CLWORLD_PUSHGATEWAY_URL set.
func MatrixTransferSingleComponent() sweep.Definition {
	const name = "matrix_transfer_single_component"

	settings := []sweep.Axis{
		// Single-task
		{},

		// Transfer actor, multi-head
		{"reset_actor_on_task_change": {false}},

		// Transfer actor, single-head
		{
			"reset_actor_on_task_change": {false},
			"multihead_archs":            {false},
		},

		// Transfer critic, multi-head
		{"reset_critic_on_task_change": {false}},

		// Transfer critic, single-head
		{
			"reset_critic_on_task_change": {false},
			"multihead_archs":             {false},
		},

		// Transfer exploration
		{"exploration_kind": {"previous"}},

		// Transfer optimizer
		{"reset_optimizer_on_task_change": {false}},
	}

	return sweep.Definition{
		Name:    name,
		Project: "pmtest/continual-learning-2",
		Tags:    []string{name, "v7"},
		Base: map[string]interface{}{
			"run_kind":      "cl",
			"logger_output": []string{tracker.TSV, tracker.Pushgateway},
			"cl_method":     nil,
			"replay_size":   int(2e6),

			"reset_buffer_on_task_change":    true,
			"reset_actor_on_task_change":     true,
			"reset_critic_on_task_change":    true,
			"reset_optimizer_on_task_change": true,
			"exploration_kind":               nil,
			"upload_weights":                 true,
		},
		Grid: sweep.Transfer(settings, task.Pairs(transferTasks),
			transferSeeds),
	}
}
