package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/samuelfneumann/clworld/cl"
	"github.com/samuelfneumann/clworld/config"
	"github.com/samuelfneumann/clworld/experiment/tracker"
	"github.com/samuelfneumann/clworld/sac"
	"github.com/samuelfneumann/clworld/task"
)

func twoTasks() config.Config {
	c := config.Defaults()
	c.TaskList = []string{"a", "b"}
	c.StepsPerTask = 100
	c.LogEvery = 10
	return c
}

func TestBuildScenario(t *testing.T) {
	spec, err := Build(twoTasks(), "run")
	if err != nil {
		t.Fatal(err)
	}

	if spec.Steps != 200 {
		t.Errorf("steps: \n\twant(200) \n\thave(%v)", spec.Steps)
	}
	if len(spec.TestEnvs) != 2 {
		t.Fatalf("test envs: \n\twant(2) \n\thave(%v)", len(spec.TestEnvs))
	}
	for i, env := range spec.TestEnvs {
		if env.OneHotIdx != i || env.OneHotLen != 2 {
			t.Errorf("test env %v: one-hot (%v, %v)", i, env.OneHotIdx,
				env.OneHotLen)
		}
		if env.Task != []string{"a", "b"}[i] {
			t.Errorf("test env %v: task %v", i, env.Task)
		}
	}
	if spec.Env.StepsPerTask != 100 || spec.Env.NumTasks() != 2 {
		t.Errorf("train env: %+v", spec.Env)
	}

	if spec.ActorKwargs.NumHeads != 2 || spec.CriticKwargs.NumHeads != 2 {
		t.Errorf("num heads: actor %v, critic %v",
			spec.ActorKwargs.NumHeads, spec.CriticKwargs.NumHeads)
	}
	if spec.Actor != sac.MLPActor {
		t.Errorf("actor: \n\twant(%v) \n\thave(%v)", sac.MLPActor, spec.Actor)
	}
	if spec.Method() != cl.None {
		t.Errorf("method: expected none, got %v", spec.Method())
	}
	if spec.RunID != "run" || spec.GroupID != config.Defaults().GroupID {
		t.Errorf("ids: group %q, run %q", spec.GroupID, spec.RunID)
	}
}

func TestBuildSingleHead(t *testing.T) {
	for _, tasks := range [][]string{{"a"}, {"a", "b"}, task.CW10} {
		c := twoTasks()
		c.TaskList = tasks
		c.MultiheadArchs = false

		spec, err := Build(c, "run")
		if err != nil {
			t.Fatal(err)
		}
		if spec.ActorKwargs.NumHeads != 1 || spec.CriticKwargs.NumHeads != 1 {
			t.Errorf("%v tasks: num heads: actor %v, critic %v", len(tasks),
				spec.ActorKwargs.NumHeads, spec.CriticKwargs.NumHeads)
		}
	}
}

func TestBuildNamedSequence(t *testing.T) {
	c := twoTasks()
	c.TaskList = nil
	c.Tasks = "CW10"

	spec, err := Build(c, "run")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Steps != 1000 || len(spec.TestEnvs) != 10 {
		t.Errorf("steps %v, test envs %v", spec.Steps, len(spec.TestEnvs))
	}
}

func TestBuildTaskSource(t *testing.T) {
	both := twoTasks()
	both.Tasks = "CW10"

	neither := twoTasks()
	neither.TaskList = nil

	for name, c := range map[string]config.Config{
		"both":    both,
		"neither": neither,
	} {
		if _, err := Build(c, "run"); !errors.Is(err, task.ErrTaskSource) {
			t.Errorf("%v: expected ErrTaskSource, got %v", name, err)
		}
	}
}

func TestBuildFreezeWithCL(t *testing.T) {
	actor := twoTasks()
	actor.CLMethod = "ewc"
	actor.FreezeActorOnTaskChange = "all"

	critic := twoTasks()
	critic.CLMethod = "packnet"
	critic.FreezeCriticOnTaskChange = "all"

	for name, c := range map[string]config.Config{
		"actor":  actor,
		"critic": critic,
	} {
		if _, err := Build(c, "run"); !errors.Is(err, ErrFreezeWithCL) {
			t.Errorf("%v: expected ErrFreezeWithCL, got %v", name, err)
		}
	}

	// Freezing without a method is allowed
	c := twoTasks()
	c.FreezeActorOnTaskChange = "all"
	if _, err := Build(c, "run"); err != nil {
		t.Errorf("unexpected error freezing without a method: %v", err)
	}
}

func TestBuildUnknownMethod(t *testing.T) {
	c := twoTasks()
	c.CLMethod = "si"
	if _, err := Build(c, "run"); !errors.Is(err, cl.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}

func TestBuildMethods(t *testing.T) {
	tests := []struct {
		method string
		actor  sac.ActorKind
		want   cl.Options
	}{
		{"l2", sac.MLPActor, cl.L2Options{
			Regularizer: cl.Regularizer{RegCoef: 100, RegularizeCritic: true},
		}},
		{"vcl", sac.VCLMLPActor, cl.VCLOptions{
			Regularizer: cl.Regularizer{RegCoef: 100, RegularizeCritic: true},
			FirstTaskKL: true,
		}},
		{"packnet", sac.MLPActor, cl.PackNetOptions{
			RegularizeCritic: true,
			RetrainSteps:     50,
		}},
		{"agem", sac.MLPActor, cl.AGEMOptions{
			Episodic: cl.Episodic{MemPerTask: 1000, BatchSize: 64},
		}},
	}

	for _, test := range tests {
		c := twoTasks()
		c.CLMethod = test.method
		c.CLRegCoef = 100
		c.RegularizeCritic = true
		c.PackNetRetrainSteps = 50
		c.EpisodicMemPerTask = 1000
		c.EpisodicBatchSize = 64

		spec, err := Build(c, "run")
		if err != nil {
			t.Errorf("%v: %v", test.method, err)
			continue
		}
		if spec.Actor != test.actor {
			t.Errorf("%v: actor \n\twant(%v) \n\thave(%v)", test.method,
				test.actor, spec.Actor)
		}
		if spec.CL.Options != test.want {
			t.Errorf("%v: options \n\twant(%#v) \n\thave(%#v)", test.method,
				test.want, spec.CL.Options)
		}
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	activation := twoTasks()
	activation.Activation = "swish"

	buffer := twoTasks()
	buffer.BufferType = "prioritized"

	steps := twoTasks()
	steps.StepsPerTask = 0

	for name, c := range map[string]config.Config{
		"activation": activation,
		"buffer":     buffer,
		"steps":      steps,
	} {
		if _, err := Build(c, "run"); err == nil {
			t.Errorf("%v: expected error", name)
		}
	}
}

// trainerFunc adapts a function to the Trainer interface
type trainerFunc func(context.Context, sac.RunSpec, tracker.Tracker) error

func (f trainerFunc) Run(ctx context.Context, spec sac.RunSpec,
	t tracker.Tracker) error {
	return f(ctx, spec, t)
}

func TestRun(t *testing.T) {
	var got sac.RunSpec
	trainer := trainerFunc(func(_ context.Context, spec sac.RunSpec,
		_ tracker.Tracker) error {
		got = spec
		return nil
	})

	logger := tracker.NewWithOutputs()
	if err := Run(context.Background(), twoTasks(), "run", trainer,
		logger); err != nil {
		t.Fatal(err)
	}
	if got.Steps != 200 {
		t.Errorf("trainer got steps %v", got.Steps)
	}

	// The trainer is not run for an invalid configuration
	called := false
	trainer = func(context.Context, sac.RunSpec, tracker.Tracker) error {
		called = true
		return nil
	}
	c := twoTasks()
	c.CLMethod = "unknown"
	if err := Run(context.Background(), c, "run", trainer, logger); err == nil {
		t.Error("expected error")
	}
	if called {
		t.Error("trainer should not run for an invalid configuration")
	}
}
