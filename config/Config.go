// Package config implements the option set of a continual learning run,
// its shared defaults, and the merging of per-experiment overrides onto
// those defaults.
//
// Options are exchanged as flat maps from option name to value. Sweep
// definitions build such maps, merge them over the defaults with Merge,
// and each run decodes its merged map into a Config with FromMap.
package config

import (
	"os"

	"github.com/samuelfneumann/clworld/cl"
)

// PushgatewayEnv is the environment variable that, when set, overrides
// the pushgateway_url option
const PushgatewayEnv = "CLWORLD_PUSHGATEWAY_URL"

// Config holds every option of a single continual learning run
type Config struct {
	RunKind string `yaml:"run_kind" json:"run_kind"`

	// Exactly one of Tasks and TaskList must be set
	Tasks    string   `yaml:"tasks" json:"tasks"`
	TaskList []string `yaml:"task_list" json:"task_list"`

	Seed         int64 `yaml:"seed" json:"seed"`
	StepsPerTask int   `yaml:"steps_per_task" json:"steps_per_task"`
	LogEvery     int   `yaml:"log_every" json:"log_every"`

	ReplaySize int    `yaml:"replay_size" json:"replay_size"`
	BatchSize  int    `yaml:"batch_size" json:"batch_size"`
	BufferType string `yaml:"buffer_type" json:"buffer_type"`

	HiddenSizes    []int  `yaml:"hidden_sizes" json:"hidden_sizes"`
	Activation     string `yaml:"activation" json:"activation"`
	UseLayerNorm   bool   `yaml:"use_layer_norm" json:"use_layer_norm"`
	MultiheadArchs bool   `yaml:"multihead_archs" json:"multihead_archs"`
	HideTaskID     bool   `yaml:"hide_task_id" json:"hide_task_id"`

	LR              float64 `yaml:"lr" json:"lr"`
	Gamma           float64 `yaml:"gamma" json:"gamma"`
	Alpha           string  `yaml:"alpha" json:"alpha"`
	TargetOutputStd float64 `yaml:"target_output_std" json:"target_output_std"`
	ClipNorm        float64 `yaml:"clipnorm" json:"clipnorm"`

	StartSteps           int    `yaml:"start_steps" json:"start_steps"`
	StartStepsSecondHalf int    `yaml:"start_steps_second_half" json:"start_steps_second_half"`
	ExplorationKind      string `yaml:"exploration_kind" json:"exploration_kind"`

	ResetBufferOnTaskChange    bool   `yaml:"reset_buffer_on_task_change" json:"reset_buffer_on_task_change"`
	ResetOptimizerOnTaskChange bool   `yaml:"reset_optimizer_on_task_change" json:"reset_optimizer_on_task_change"`
	ResetActorOnTaskChange     bool   `yaml:"reset_actor_on_task_change" json:"reset_actor_on_task_change"`
	ResetCriticOnTaskChange    bool   `yaml:"reset_critic_on_task_change" json:"reset_critic_on_task_change"`
	FreezeActorOnTaskChange    string `yaml:"freeze_actor_on_task_change" json:"freeze_actor_on_task_change"`
	FreezeCriticOnTaskChange   string `yaml:"freeze_critic_on_task_change" json:"freeze_critic_on_task_change"`
	TransferAlphaOnTaskChange  bool   `yaml:"transfer_alpha_on_task_change" json:"transfer_alpha_on_task_change"`

	// Continual learning method and its arguments
	CLMethod                 string  `yaml:"cl_method" json:"cl_method"`
	CLRegCoef                float64 `yaml:"cl_reg_coef" json:"cl_reg_coef"`
	RegularizeCritic         bool    `yaml:"regularize_critic" json:"regularize_critic"`
	VCLFirstTaskKL           bool    `yaml:"vcl_first_task_kl" json:"vcl_first_task_kl"`
	PackNetRetrainSteps      int     `yaml:"packnet_retrain_steps" json:"packnet_retrain_steps"`
	EpisodicMemPerTask       int     `yaml:"episodic_mem_per_task" json:"episodic_mem_per_task"`
	EpisodicBatchSize        int     `yaml:"episodic_batch_size" json:"episodic_batch_size"`
	EpisodicMemoryFromBuffer bool    `yaml:"episodic_memory_from_buffer" json:"episodic_memory_from_buffer"`

	UploadWeights bool `yaml:"upload_weights" json:"upload_weights"`

	// RunID identifies the run. A new ID is generated when empty.
	RunID string `yaml:"run_id" json:"run_id"`

	// Logging
	LoggerOutput   []string `yaml:"logger_output" json:"logger_output"`
	GroupID        string   `yaml:"group_id" json:"group_id"`
	LogDir         string   `yaml:"log_dir" json:"log_dir"`
	PushgatewayURL string   `yaml:"pushgateway_url" json:"pushgateway_url"`

	// TrainerCommand is the command line of the external trainer
	TrainerCommand []string `yaml:"trainer_command" json:"trainer_command"`
}

// Defaults returns the default options shared by all experiments
func Defaults() Config {
	return Config{
		RunKind: "cl",

		Seed:         0,
		StepsPerTask: 1_000_000,
		LogEvery:     20_000,

		ReplaySize: 1_000_000,
		BatchSize:  128,
		BufferType: "fifo",

		HiddenSizes:    []int{256, 256, 256, 256},
		Activation:     "lrelu",
		UseLayerNorm:   true,
		MultiheadArchs: true,
		HideTaskID:     true,

		LR:              1e-3,
		Gamma:           0.99,
		Alpha:           "auto",
		TargetOutputStd: 0.089,

		StartSteps: 10_000,

		ResetBufferOnTaskChange: true,

		VCLFirstTaskKL:           true,
		EpisodicMemoryFromBuffer: true,

		LoggerOutput: []string{"tsv", "stdout"},
		GroupID:      "default_group",
		LogDir:       "logs",

		TrainerCommand: []string{"python3", "-m", "continualworld.train"},
	}
}

// CLParams returns the continual learning arguments of the run
func (c Config) CLParams() cl.Params {
	return cl.Params{
		RegCoef:                  c.CLRegCoef,
		RegularizeCritic:         c.RegularizeCritic,
		VCLFirstTaskKL:           c.VCLFirstTaskKL,
		PackNetRetrainSteps:      c.PackNetRetrainSteps,
		EpisodicMemPerTask:       c.EpisodicMemPerTask,
		EpisodicBatchSize:        c.EpisodicBatchSize,
		EpisodicMemoryFromBuffer: c.EpisodicMemoryFromBuffer,
	}
}

// ApplyEnv overrides options with those set in the environment
func (c *Config) ApplyEnv() {
	if url := os.Getenv(PushgatewayEnv); url != "" {
		c.PushgatewayURL = url
	}
}
