package cl

import "fmt"

// Options holds the extra arguments a continual learning method needs on
// top of the vanilla SAC arguments
type Options interface {
	// Method returns the method the Options configure
	Method() Method

	// Validate returns an error describing whether or not the Options
	// are valid
	Validate() error
}

// Params holds every continual learning argument of a run. Each method
// picks the subset of Params it needs when its Options are created.
type Params struct {
	RegCoef                  float64
	RegularizeCritic         bool
	VCLFirstTaskKL           bool
	PackNetRetrainSteps      int
	EpisodicMemPerTask       int
	EpisodicBatchSize        int
	EpisodicMemoryFromBuffer bool
}

// NoOptions configures vanilla SAC, which has no extra arguments
type NoOptions struct{}

func (NoOptions) Method() Method  { return None }
func (NoOptions) Validate() error { return nil }

// Regularizer holds the arguments shared by the methods that add a
// weight-regularization term to the loss
type Regularizer struct {
	RegCoef          float64 `json:"cl_reg_coef"`
	RegularizeCritic bool    `json:"regularize_critic"`
}

// Validate checks that the regularization coefficient is non-negative
func (r Regularizer) Validate() error {
	if r.RegCoef < 0 {
		return fmt.Errorf("validate: regularization coefficient must be "+
			"non-negative \n\twant(>=0) \n\thave(%v)", r.RegCoef)
	}
	return nil
}

// L2Options configures L2 regularization towards the previous weights
type L2Options struct{ Regularizer }

func (L2Options) Method() Method { return L2 }

// EWCOptions configures Elastic Weight Consolidation
type EWCOptions struct{ Regularizer }

func (EWCOptions) Method() Method { return EWC }

// MASOptions configures Memory Aware Synapses
type MASOptions struct{ Regularizer }

func (MASOptions) Method() Method { return MAS }

// VCLOptions configures Variational Continual Learning
type VCLOptions struct {
	Regularizer

	// FirstTaskKL determines whether the KL term against the prior is
	// also applied while training on the first task
	FirstTaskKL bool `json:"first_task_kl"`
}

func (VCLOptions) Method() Method { return VCL }

// PackNetOptions configures PackNet
type PackNetOptions struct {
	RegularizeCritic bool `json:"regularize_critic"`

	// RetrainSteps is the number of steps spent retraining the pruned
	// network at the end of each task
	RetrainSteps int `json:"retrain_steps"`
}

func (PackNetOptions) Method() Method { return PackNet }

// Validate checks that the number of retraining steps is non-negative
func (p PackNetOptions) Validate() error {
	if p.RetrainSteps < 0 {
		return fmt.Errorf("validate: retrain steps must be non-negative "+
			"\n\twant(>=0) \n\thave(%v)", p.RetrainSteps)
	}
	return nil
}

// Episodic holds the arguments of methods that keep an episodic memory
// of samples from previous tasks
type Episodic struct {
	MemPerTask int `json:"episodic_mem_per_task"`
	BatchSize  int `json:"episodic_batch_size"`
}

// Validate checks that the episodic memory sizes are non-negative
func (e Episodic) Validate() error {
	if e.MemPerTask < 0 {
		return fmt.Errorf("validate: episodic memory per task must be "+
			"non-negative \n\twant(>=0) \n\thave(%v)", e.MemPerTask)
	}
	if e.BatchSize < 0 {
		return fmt.Errorf("validate: episodic batch size must be "+
			"non-negative \n\twant(>=0) \n\thave(%v)", e.BatchSize)
	}
	return nil
}

// AGEMOptions configures Averaged Gradient Episodic Memory
type AGEMOptions struct{ Episodic }

func (AGEMOptions) Method() Method { return AGEM }

// EpisodicReplayOptions configures replay of samples from an episodic
// memory of previous tasks
type EpisodicReplayOptions struct {
	Episodic
	Regularizer

	// MemoryFromBuffer determines whether the episodic memory is filled
	// from the replay buffer rather than from fresh rollouts
	MemoryFromBuffer bool `json:"episodic_memory_from_buffer"`
}

func (EpisodicReplayOptions) Method() Method { return EpisodicReplay }

// Validate checks both the episodic memory and the regularizer
func (e EpisodicReplayOptions) Validate() error {
	if err := e.Episodic.Validate(); err != nil {
		return err
	}
	return e.Regularizer.Validate()
}
