// Package environment describes the environments of a continual learning
// run. The environments themselves are simulated by the trainer; the
// values in this package describe which tasks each environment runs and
// how the task identity is exposed to the agent. All values are JSON
// serializable.
package environment

import (
	"errors"
	"fmt"
)

// ErrNoTasks is returned when an environment is described with no tasks
var ErrNoTasks = errors.New("environment needs at least one task")

// Continual describes the training environment of a run. The tasks are
// run one after the other, each for StepsPerTask steps. Observations
// of the environment carry a one-hot encoding of the current task index.
type Continual struct {
	Tasks        []string `json:"tasks"`
	StepsPerTask int      `json:"steps_per_task"`
}

// NewContinual returns a new Continual environment running each of
// tasks sequentially for stepsPerTask steps
func NewContinual(tasks []string, stepsPerTask int) (Continual, error) {
	if len(tasks) == 0 {
		return Continual{}, fmt.Errorf("newContinual: %w", ErrNoTasks)
	}
	if stepsPerTask <= 0 {
		return Continual{}, fmt.Errorf("newContinual: steps per task "+
			"must be positive \n\twant(>0) \n\thave(%v)", stepsPerTask)
	}

	return Continual{
		Tasks:        append([]string{}, tasks...),
		StepsPerTask: stepsPerTask,
	}, nil
}

// NumTasks returns the number of tasks in the sequence
func (c Continual) NumTasks() int {
	return len(c.Tasks)
}

// Steps returns the total number of steps needed to run every task
func (c Continual) Steps() int {
	return c.StepsPerTask * len(c.Tasks)
}

// TaskAt returns the index of the task active at the global step. Steps
// past the end of the sequence return the index of the last task.
func (c Continual) TaskAt(step int) int {
	if step < 0 {
		return 0
	}

	idx := step / c.StepsPerTask
	if idx >= len(c.Tasks) {
		return len(c.Tasks) - 1
	}
	return idx
}

// Single returns the evaluation environment of the task at index i in
// the sequence
func (c Continual) Single(i int) (Single, error) {
	if i < 0 || i >= len(c.Tasks) {
		return Single{}, fmt.Errorf("single: task index out of range "+
			"\n\twant([0, %v)) \n\thave(%v)", len(c.Tasks), i)
	}
	return NewSingle(c.Tasks[i], i, len(c.Tasks))
}
