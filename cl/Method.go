// Package cl implements the selection of continual learning methods.
//
// A continual learning method is selected by a string key. Each method
// needs its own set of extra arguments on top of the arguments of a
// vanilla SAC agent. These extra arguments are stored in an Options
// value whose concrete type is fixed by the method: for example, AGEM
// needs the size of its episodic memory and the batch size to sample
// from that memory, while PackNet needs the number of retraining steps.
package cl

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned when a continual learning method key
// does not name any implemented method
var ErrNotImplemented = errors.New("this method is not implemented")

// Method is the key of a continual learning method
type Method string

// Continual learning methods. None runs vanilla SAC with no continual
// learning method.
const (
	None           Method = ""
	L2             Method = "l2"
	EWC            Method = "ewc"
	MAS            Method = "mas"
	VCL            Method = "vcl"
	PackNet        Method = "packnet"
	AGEM           Method = "agem"
	EpisodicReplay Method = "episodic_replay"
)

// ParseMethod returns the Method with key s. An unknown key results in
// ErrNotImplemented; there is no default method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if _, ok := registered[m]; !ok {
		return "", fmt.Errorf("parseMethod: %w: %q", ErrNotImplemented, s)
	}
	return m, nil
}

// IsNone returns whether the Method runs vanilla SAC
func (m Method) IsNone() bool {
	return m == None
}

// Variational returns whether the Method uses a variational actor
func (m Method) Variational() bool {
	return m == VCL
}

func (m Method) String() string {
	if m == None {
		return "none"
	}
	return string(m)
}
