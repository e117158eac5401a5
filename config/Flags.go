package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// stringList is a flag.Value holding comma-separated strings
type stringList struct{ values *[]string }

func (s stringList) String() string {
	if s.values == nil {
		return ""
	}
	return strings.Join(*s.values, ",")
}

func (s stringList) Set(v string) error {
	if v == "" {
		*s.values = nil
		return nil
	}
	*s.values = strings.Split(v, ",")
	return nil
}

// intList is a flag.Value holding comma-separated integers
type intList struct{ values *[]int }

func (l intList) String() string {
	if l.values == nil {
		return ""
	}
	strs := make([]string, len(*l.values))
	for i, v := range *l.values {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, ",")
}

func (l intList) Set(v string) error {
	var ints []int
	for _, s := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("set: %q is not an integer", s)
		}
		ints = append(ints, i)
	}
	*l.values = ints
	return nil
}

// Bind registers one flag on fs for every option of c. The current
// values of c are the flag defaults, and parsing fs writes into c.
func Bind(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.RunKind, "run_kind", c.RunKind, "kind of run")
	fs.StringVar(&c.Tasks, "tasks", c.Tasks, "name of the task sequence")
	fs.Var(stringList{&c.TaskList}, "task_list",
		"comma-separated explicit task sequence")

	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.StepsPerTask, "steps_per_task", c.StepsPerTask,
		"training steps per task")
	fs.IntVar(&c.LogEvery, "log_every", c.LogEvery,
		"steps between logged epochs")

	fs.IntVar(&c.ReplaySize, "replay_size", c.ReplaySize,
		"replay buffer capacity")
	fs.IntVar(&c.BatchSize, "batch_size", c.BatchSize, "minibatch size")
	fs.StringVar(&c.BufferType, "buffer_type", c.BufferType,
		"replay buffer type: fifo or reservoir")

	fs.Var(intList{&c.HiddenSizes}, "hidden_sizes",
		"comma-separated hidden layer sizes")
	fs.StringVar(&c.Activation, "activation", c.Activation,
		"hidden layer activation")
	fs.BoolVar(&c.UseLayerNorm, "use_layer_norm", c.UseLayerNorm,
		"use layer normalization")
	fs.BoolVar(&c.MultiheadArchs, "multihead_archs", c.MultiheadArchs,
		"use one output head per task")
	fs.BoolVar(&c.HideTaskID, "hide_task_id", c.HideTaskID,
		"hide the task id from the network input")

	fs.Float64Var(&c.LR, "lr", c.LR, "learning rate")
	fs.Float64Var(&c.Gamma, "gamma", c.Gamma, "discount factor")
	fs.StringVar(&c.Alpha, "alpha", c.Alpha,
		"entropy coefficient, or auto to tune it")
	fs.Float64Var(&c.TargetOutputStd, "target_output_std",
		c.TargetOutputStd, "target policy standard deviation for auto alpha")
	fs.Float64Var(&c.ClipNorm, "clipnorm", c.ClipNorm,
		"gradient norm clipping, 0 to disable")

	fs.IntVar(&c.StartSteps, "start_steps", c.StartSteps,
		"steps of uniform random exploration")
	fs.IntVar(&c.StartStepsSecondHalf, "start_steps_second_half",
		c.StartStepsSecondHalf,
		"steps of exploration at the start of the second half")
	fs.StringVar(&c.ExplorationKind, "exploration_kind", c.ExplorationKind,
		"exploration policy after a task change")

	fs.BoolVar(&c.ResetBufferOnTaskChange, "reset_buffer_on_task_change",
		c.ResetBufferOnTaskChange, "empty the replay buffer on task change")
	fs.BoolVar(&c.ResetOptimizerOnTaskChange,
		"reset_optimizer_on_task_change", c.ResetOptimizerOnTaskChange,
		"reset the optimizer state on task change")
	fs.BoolVar(&c.ResetActorOnTaskChange, "reset_actor_on_task_change",
		c.ResetActorOnTaskChange, "reinitialize the actor on task change")
	fs.BoolVar(&c.ResetCriticOnTaskChange, "reset_critic_on_task_change",
		c.ResetCriticOnTaskChange, "reinitialize the critic on task change")
	fs.StringVar(&c.FreezeActorOnTaskChange, "freeze_actor_on_task_change",
		c.FreezeActorOnTaskChange, "actor layers to freeze on task change")
	fs.StringVar(&c.FreezeCriticOnTaskChange,
		"freeze_critic_on_task_change", c.FreezeCriticOnTaskChange,
		"critic layers to freeze on task change")
	fs.BoolVar(&c.TransferAlphaOnTaskChange,
		"transfer_alpha_on_task_change", c.TransferAlphaOnTaskChange,
		"keep the entropy coefficient on task change")

	fs.StringVar(&c.CLMethod, "cl_method", c.CLMethod,
		"continual learning method")
	fs.Float64Var(&c.CLRegCoef, "cl_reg_coef", c.CLRegCoef,
		"regularization coefficient")
	fs.BoolVar(&c.RegularizeCritic, "regularize_critic", c.RegularizeCritic,
		"apply the continual learning method to the critic")
	fs.BoolVar(&c.VCLFirstTaskKL, "vcl_first_task_kl", c.VCLFirstTaskKL,
		"apply the VCL KL term on the first task")
	fs.IntVar(&c.PackNetRetrainSteps, "packnet_retrain_steps",
		c.PackNetRetrainSteps, "PackNet retraining steps per task")
	fs.IntVar(&c.EpisodicMemPerTask, "episodic_mem_per_task",
		c.EpisodicMemPerTask, "episodic memory size per task")
	fs.IntVar(&c.EpisodicBatchSize, "episodic_batch_size",
		c.EpisodicBatchSize, "episodic memory batch size")
	fs.BoolVar(&c.EpisodicMemoryFromBuffer, "episodic_memory_from_buffer",
		c.EpisodicMemoryFromBuffer, "fill episodic memory from the buffer")

	fs.BoolVar(&c.UploadWeights, "upload_weights", c.UploadWeights,
		"upload weights at the end of each task")

	fs.StringVar(&c.RunID, "run_id", c.RunID,
		"ID of the run, generated if empty")
	fs.Var(stringList{&c.LoggerOutput}, "logger_output",
		"comma-separated logger outputs: tsv, stdout, pushgateway")
	fs.StringVar(&c.GroupID, "group_id", c.GroupID, "run group")
	fs.StringVar(&c.LogDir, "log_dir", c.LogDir, "root of the log directory")
	fs.StringVar(&c.PushgatewayURL, "pushgateway_url", c.PushgatewayURL,
		"Prometheus pushgateway URL")

	fs.Var(stringList{&c.TrainerCommand}, "trainer_command",
		"comma-separated command line of the trainer")
}
