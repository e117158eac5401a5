package cl

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func params() Params {
	return Params{
		RegCoef:                  1e4,
		RegularizeCritic:         true,
		VCLFirstTaskKL:           true,
		PackNetRetrainSteps:      1000,
		EpisodicMemPerTask:       10000,
		EpisodicBatchSize:        128,
		EpisodicMemoryFromBuffer: true,
	}
}

func TestNewOptions(t *testing.T) {
	reg := Regularizer{RegCoef: 1e4, RegularizeCritic: true}
	epi := Episodic{MemPerTask: 10000, BatchSize: 128}

	tests := []struct {
		method Method
		want   Options
	}{
		{None, NoOptions{}},
		{L2, L2Options{reg}},
		{EWC, EWCOptions{reg}},
		{MAS, MASOptions{reg}},
		{VCL, VCLOptions{Regularizer: reg, FirstTaskKL: true}},
		{PackNet, PackNetOptions{RegularizeCritic: true, RetrainSteps: 1000}},
		{AGEM, AGEMOptions{epi}},
		{EpisodicReplay, EpisodicReplayOptions{
			Episodic:         epi,
			Regularizer:      reg,
			MemoryFromBuffer: true,
		}},
	}

	for _, test := range tests {
		got, err := NewOptions(test.method, params())
		if err != nil {
			t.Errorf("%v: unexpected error: %v", test.method, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%v: \n\twant(%#v) \n\thave(%#v)", test.method,
				test.want, got)
		}
		if got.Method() != test.method {
			t.Errorf("%v: options report method %v", test.method,
				got.Method())
		}
	}

	if n := len(Methods()); n != len(tests) {
		t.Errorf("expected %v registered methods, got %v", len(tests), n)
	}
}

func TestUnknownMethod(t *testing.T) {
	for _, key := range []string{"si", "EWC", "none", "packnet2"} {
		if _, err := NewOptions(Method(key), params()); !errors.Is(err,
			ErrNotImplemented) {
			t.Errorf("newOptions(%q): expected ErrNotImplemented, got %v",
				key, err)
		}
		if _, err := ParseMethod(key); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("parseMethod(%q): expected ErrNotImplemented, got %v",
				key, err)
		}
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		if err != nil {
			t.Errorf("parseMethod(%q): %v", m, err)
		}
		if got != m {
			t.Errorf("parseMethod(%q): \n\twant(%v) \n\thave(%v)", m, m, got)
		}
	}

	if !VCL.Variational() || EWC.Variational() {
		t.Error("only vcl should be variational")
	}
}

func TestInvalidOptions(t *testing.T) {
	p := params()
	p.EpisodicBatchSize = -1
	if _, err := NewOptions(AGEM, p); err == nil {
		t.Error("expected error for negative episodic batch size")
	}

	p = params()
	p.RegCoef = -1
	if _, err := NewOptions(EpisodicReplay, p); err == nil {
		t.Error("expected error for negative regularization coefficient")
	}

	p = params()
	p.PackNetRetrainSteps = -5
	if _, err := NewOptions(PackNet, p); err == nil {
		t.Error("expected error for negative retrain steps")
	}
}

func TestTypedOptionsJSON(t *testing.T) {
	for _, m := range Methods() {
		opts, err := NewOptions(m, params())
		if err != nil {
			t.Fatal(err)
		}

		data, err := json.Marshal(NewTypedOptions(opts))
		if err != nil {
			t.Fatalf("%v: could not marshal: %v", m, err)
		}

		var decoded TypedOptions
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%v: could not unmarshal %s: %v", m, data, err)
		}
		if !reflect.DeepEqual(decoded.Options, opts) {
			t.Errorf("%v: \n\twant(%#v) \n\thave(%#v)", m, opts,
				decoded.Options)
		}
	}
}

func TestTypedOptionsWireKeys(t *testing.T) {
	opts, err := NewOptions(EpisodicReplay, params())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(NewTypedOptions(opts))
	if err != nil {
		t.Fatal(err)
	}

	var m struct {
		Method  string                 `json:"method"`
		Options map[string]interface{} `json:"options"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Method != "episodic_replay" {
		t.Errorf("method: \n\twant(episodic_replay) \n\thave(%v)", m.Method)
	}
	for _, key := range []string{
		"episodic_mem_per_task",
		"episodic_batch_size",
		"episodic_memory_from_buffer",
		"regularize_critic",
		"cl_reg_coef",
	} {
		if _, ok := m.Options[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}

	bad := []byte(`{"method": "si", "options": {}}`)
	var decoded TypedOptions
	if err := json.Unmarshal(bad, &decoded); !errors.Is(err,
		ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}
