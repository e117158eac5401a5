package sac

import "fmt"

// Activation is the activation function of the hidden layers of the
// actor and critic networks
type Activation string

// Available activations
const (
	ReLU      Activation = "relu"
	Tanh      Activation = "tanh"
	ELU       Activation = "elu"
	LeakyReLU Activation = "lrelu"
)

// ParseActivation returns the Activation named s
func ParseActivation(s string) (Activation, error) {
	switch a := Activation(s); a {
	case ReLU, Tanh, ELU, LeakyReLU:
		return a, nil
	}
	return "", fmt.Errorf("parseActivation: no such activation %q", s)
}

// ActorKind determines which actor network implementation is used
type ActorKind string

const (
	// MLPActor is a Gaussian MLP actor
	MLPActor ActorKind = "mlp"

	// VCLMLPActor is a Gaussian MLP actor with Bayesian weights, needed
	// by the variational continual learning method
	VCLMLPActor ActorKind = "vcl_mlp"
)

// NetworkConfig configures an actor or critic network
type NetworkConfig struct {
	HiddenSizes  []int      `json:"hidden_sizes"`
	Activation   Activation `json:"activation"`
	UseLayerNorm bool       `json:"use_layer_norm"`

	// NumHeads is the number of output heads. With more than one head,
	// the head of the current task is selected by the one-hot task
	// index of the observation.
	NumHeads int `json:"num_heads"`

	// HideTaskID removes the one-hot task index from the network input
	HideTaskID bool `json:"hide_task_id"`
}

// Validate checks that the network has hidden layers of positive size
// and at least one head
func (n NetworkConfig) Validate() error {
	if len(n.HiddenSizes) == 0 {
		return fmt.Errorf("validate: network needs at least one hidden layer")
	}
	for i, size := range n.HiddenSizes {
		if size <= 0 {
			return fmt.Errorf("validate: hidden layer %v must have "+
				"positive size \n\twant(>0) \n\thave(%v)", i, size)
		}
	}
	if n.NumHeads < 1 {
		return fmt.Errorf("validate: network needs at least one head "+
			"\n\twant(>0) \n\thave(%v)", n.NumHeads)
	}
	if _, err := ParseActivation(string(n.Activation)); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
