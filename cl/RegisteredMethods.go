package cl

import (
	"fmt"
	"reflect"
	"sort"
)

// registration stores how to construct the Options of a Method and the
// concrete type those Options decode into
type registration struct {
	typ   reflect.Type
	build func(Params) Options
}

// Registered methods with the package. Once a Method has been
// registered with this map, its Options can be created with NewOptions
// and decoded into their concrete type by TypedOptions.
var registered map[Method]registration

func init() {
	registered = make(map[Method]registration)

	register(NoOptions{}, func(Params) Options {
		return NoOptions{}
	})

	register(L2Options{}, func(p Params) Options {
		return L2Options{regularizer(p)}
	})
	register(EWCOptions{}, func(p Params) Options {
		return EWCOptions{regularizer(p)}
	})
	register(MASOptions{}, func(p Params) Options {
		return MASOptions{regularizer(p)}
	})

	register(VCLOptions{}, func(p Params) Options {
		return VCLOptions{
			Regularizer: regularizer(p),
			FirstTaskKL: p.VCLFirstTaskKL,
		}
	})

	register(PackNetOptions{}, func(p Params) Options {
		return PackNetOptions{
			RegularizeCritic: p.RegularizeCritic,
			RetrainSteps:     p.PackNetRetrainSteps,
		}
	})

	register(AGEMOptions{}, func(p Params) Options {
		return AGEMOptions{episodic(p)}
	})

	register(EpisodicReplayOptions{}, func(p Params) Options {
		return EpisodicReplayOptions{
			Episodic:         episodic(p),
			Regularizer:      regularizer(p),
			MemoryFromBuffer: p.EpisodicMemoryFromBuffer,
		}
	})
}

// register registers the concrete Options type of a Method together
// with the function that builds those Options from the run Params
func register(prototype Options, build func(Params) Options) {
	registered[prototype.Method()] = registration{
		typ:   reflect.TypeOf(prototype),
		build: build,
	}
}

func regularizer(p Params) Regularizer {
	return Regularizer{RegCoef: p.RegCoef, RegularizeCritic: p.RegularizeCritic}
}

func episodic(p Params) Episodic {
	return Episodic{
		MemPerTask: p.EpisodicMemPerTask,
		BatchSize:  p.EpisodicBatchSize,
	}
}

// NewOptions returns the Options of method m, filled in from p. If m is
// not a registered Method, ErrNotImplemented is returned.
func NewOptions(m Method, p Params) (Options, error) {
	r, ok := registered[m]
	if !ok {
		return nil, fmt.Errorf("newOptions: %w: %q", ErrNotImplemented,
			string(m))
	}

	opts := r.build(p)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("newOptions: invalid options for %v: %w",
			m, err)
	}
	return opts, nil
}

// Methods returns all registered methods, sorted by key
func Methods() []Method {
	methods := make([]Method, 0, len(registered))
	for m := range registered {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i] < methods[j]
	})
	return methods
}
