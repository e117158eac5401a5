// Package experiment implements the launching of a single continual
// learning run.
//
// A run is described by a config.Config. Build resolves the Config into
// a sac.RunSpec: the task sequence, the continual training environment
// and one test environment per task, the actor and critic networks, the
// vanilla SAC arguments, and the options of the selected continual
// learning method. Run then hands the RunSpec to a Trainer, which owns
// the training loop.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/clworld/cl"
	"github.com/samuelfneumann/clworld/config"
	"github.com/samuelfneumann/clworld/environment"
	"github.com/samuelfneumann/clworld/experiment/tracker"
	"github.com/samuelfneumann/clworld/sac"
	"github.com/samuelfneumann/clworld/task"
)

// ErrFreezeWithCL is returned when a continual learning method is
// combined with freezing the actor or critic on task change
var ErrFreezeWithCL = errors.New("CL methods with freezing are not " +
	"supported yet")

// Trainer trains a SAC agent as described by a RunSpec
type Trainer interface {
	// Run trains until the run is finished, logging metrics to t
	Run(ctx context.Context, spec sac.RunSpec, t tracker.Tracker) error
}

// Build resolves c into the RunSpec of the run with ID runID
func Build(c config.Config, runID string) (sac.RunSpec, error) {
	tasks, err := task.Resolve(c.Tasks, c.TaskList)
	if err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: %w", err)
	}

	env, err := environment.NewContinual(tasks, c.StepsPerTask)
	if err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: could not create train "+
			"environment: %w", err)
	}
	numTasks := env.NumTasks()

	testEnvs := make([]environment.Single, numTasks)
	for i := range testEnvs {
		testEnvs[i], err = env.Single(i)
		if err != nil {
			return sac.RunSpec{}, fmt.Errorf("build: could not create test "+
				"environment: %w", err)
		}
	}

	steps := c.StepsPerTask * numTasks

	if c.CLMethod != "" {
		noFreezing := c.FreezeActorOnTaskChange == "" &&
			c.FreezeCriticOnTaskChange == ""
		if !noFreezing {
			return sac.RunSpec{}, fmt.Errorf("build: %w (cl_method=%q)",
				ErrFreezeWithCL, c.CLMethod)
		}
	}

	numHeads := 1
	if c.MultiheadArchs {
		numHeads = numTasks
	}

	activation, err := sac.ParseActivation(c.Activation)
	if err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: %w", err)
	}
	networkKwargs := func() sac.NetworkConfig {
		return sac.NetworkConfig{
			HiddenSizes:  append([]int{}, c.HiddenSizes...),
			Activation:   activation,
			UseLayerNorm: c.UseLayerNorm,
			NumHeads:     numHeads,
			HideTaskID:   c.HideTaskID,
		}
	}

	method := cl.Method(c.CLMethod)
	actor := sac.MLPActor
	if method.Variational() {
		actor = sac.VCLMLPActor
	}

	bufferType, err := sac.ParseBufferType(c.BufferType)
	if err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: %w", err)
	}

	vanilla := sac.Config{
		Env:      env,
		TestEnvs: testEnvs,

		Seed:     c.Seed,
		Steps:    steps,
		LogEvery: c.LogEvery,

		ReplaySize: c.ReplaySize,
		BatchSize:  c.BatchSize,
		BufferType: bufferType,

		Actor:        actor,
		ActorKwargs:  networkKwargs(),
		CriticKwargs: networkKwargs(),

		LR:              c.LR,
		Alpha:           c.Alpha,
		Gamma:           c.Gamma,
		ClipNorm:        c.ClipNorm,
		TargetOutputStd: c.TargetOutputStd,

		StartSteps:           c.StartSteps,
		StartStepsSecondHalf: c.StartStepsSecondHalf,
		ExplorationKind:      c.ExplorationKind,

		ResetBufferOnTaskChange:    c.ResetBufferOnTaskChange,
		ResetOptimizerOnTaskChange: c.ResetOptimizerOnTaskChange,
		ResetActorOnTaskChange:     c.ResetActorOnTaskChange,
		ResetCriticOnTaskChange:    c.ResetCriticOnTaskChange,
		FreezeActorOnTaskChange:    c.FreezeActorOnTaskChange,
		FreezeCriticOnTaskChange:   c.FreezeCriticOnTaskChange,
		TransferAlphaOnTaskChange:  c.TransferAlphaOnTaskChange,

		UploadWeights: c.UploadWeights,
	}
	if err := vanilla.Validate(); err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: %w", err)
	}

	opts, err := cl.NewOptions(method, c.CLParams())
	if err != nil {
		return sac.RunSpec{}, fmt.Errorf("build: %w", err)
	}

	slog.Debug("Run built.", "run_id", runID, "tasks", tasks,
		"steps", steps, "cl_method", method.String(), "num_heads", numHeads)

	return sac.RunSpec{
		Config:  vanilla,
		CL:      cl.NewTypedOptions(opts),
		GroupID: c.GroupID,
		RunID:   runID,
	}, nil
}

// Run builds the run described by c and trains it with trainer,
// logging to t. A run either finishes or fails as a whole.
func Run(ctx context.Context, c config.Config, runID string, trainer Trainer,
	t tracker.Tracker) error {
	spec, err := Build(c, runID)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	slog.Info("Starting run.", "group_id", spec.GroupID, "run_id", runID,
		"cl_method", spec.Method().String(), "steps", spec.Steps)
	if err := trainer.Run(ctx, spec, t); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	slog.Info("Run finished.", "run_id", runID)
	return nil
}
