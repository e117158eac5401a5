// Package sac implements the configuration of a soft actor-critic run
// on a sequence of tasks. The configuration is handed to the trainer,
// which owns the networks, the replay buffer, and the update rule.
package sac

import (
	"fmt"

	"github.com/samuelfneumann/clworld/cl"
	"github.com/samuelfneumann/clworld/environment"
)

// BufferType is the kind of replay buffer a SAC agent uses
type BufferType string

const (
	// FIFO buffers overwrite the oldest transition when full
	FIFO BufferType = "fifo"

	// Reservoir buffers keep a uniform sample of all transitions seen
	Reservoir BufferType = "reservoir"
)

// ParseBufferType returns the BufferType named s
func ParseBufferType(s string) (BufferType, error) {
	switch b := BufferType(s); b {
	case FIFO, Reservoir:
		return b, nil
	}
	return "", fmt.Errorf("parseBufferType: no such buffer type %q", s)
}

// Config holds the arguments of a vanilla SAC agent. Every continual
// learning method takes these arguments plus those in its cl.Options.
type Config struct {
	Env      environment.Continual `json:"env"`
	TestEnvs []environment.Single  `json:"test_envs"`

	Seed     int64 `json:"seed"`
	Steps    int   `json:"steps"`
	LogEvery int   `json:"log_every"`

	ReplaySize int        `json:"replay_size"`
	BatchSize  int        `json:"batch_size"`
	BufferType BufferType `json:"buffer_type"`

	Actor        ActorKind     `json:"actor_cl"`
	ActorKwargs  NetworkConfig `json:"actor_kwargs"`
	CriticKwargs NetworkConfig `json:"critic_kwargs"`

	LR              float64 `json:"lr"`
	Alpha           string  `json:"alpha"`
	Gamma           float64 `json:"gamma"`
	ClipNorm        float64 `json:"clipnorm"`
	TargetOutputStd float64 `json:"target_output_std"`

	StartSteps           int    `json:"start_steps"`
	StartStepsSecondHalf int    `json:"start_steps_second_half"`
	ExplorationKind      string `json:"exploration_kind,omitempty"`

	// What to reset or carry over when the task changes
	ResetBufferOnTaskChange    bool   `json:"reset_buffer_on_task_change"`
	ResetOptimizerOnTaskChange bool   `json:"reset_optimizer_on_task_change"`
	ResetActorOnTaskChange     bool   `json:"reset_actor_on_task_change"`
	ResetCriticOnTaskChange    bool   `json:"reset_critic_on_task_change"`
	FreezeActorOnTaskChange    string `json:"freeze_actor_on_task_change,omitempty"`
	FreezeCriticOnTaskChange   string `json:"freeze_critic_on_task_change,omitempty"`
	TransferAlphaOnTaskChange  bool   `json:"transfer_alpha_on_task_change"`

	UploadWeights bool `json:"upload_weights"`
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.Steps != c.Env.Steps() {
		return fmt.Errorf("validate: steps must cover every task "+
			"\n\twant(%v) \n\thave(%v)", c.Env.Steps(), c.Steps)
	}
	if len(c.TestEnvs) != c.Env.NumTasks() {
		return fmt.Errorf("validate: need one test environment per task "+
			"\n\twant(%v) \n\thave(%v)", c.Env.NumTasks(), len(c.TestEnvs))
	}
	if c.LogEvery <= 0 {
		return fmt.Errorf("validate: cannot log every %v < 1 steps",
			c.LogEvery)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("validate: cannot have batch size %v < 1",
			c.BatchSize)
	}
	if c.ReplaySize < c.BatchSize {
		return fmt.Errorf("validate: replay size %v smaller than batch "+
			"size %v", c.ReplaySize, c.BatchSize)
	}
	if _, err := ParseBufferType(string(c.BufferType)); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.ActorKwargs.Validate(); err != nil {
		return fmt.Errorf("validate: actor: %w", err)
	}
	if err := c.CriticKwargs.Validate(); err != nil {
		return fmt.Errorf("validate: critic: %w", err)
	}
	return nil
}

// RunSpec is a fully resolved run: the vanilla SAC arguments and the
// continual learning method along with its extra arguments. RunSpecs
// are what trainers consume.
type RunSpec struct {
	Config
	CL cl.TypedOptions `json:"cl"`

	// Name of the run group and run, used by the trainer to tag any
	// artifacts it uploads
	GroupID string `json:"group_id"`
	RunID   string `json:"run_id"`
}

// Method returns the continual learning method of the run
func (r RunSpec) Method() cl.Method {
	return r.CL.Method
}
