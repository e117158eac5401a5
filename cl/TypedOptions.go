package cl

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// TypedOptions stores Options together with their Method so that, when
// decoding, the Options can be decoded into their concrete type without
// knowing that type beforehand.
type TypedOptions struct {
	Method  Method  `json:"method"`
	Options Options `json:"options"`
}

// NewTypedOptions types the argument Options
func NewTypedOptions(o Options) TypedOptions {
	return TypedOptions{Method: o.Method(), Options: o}
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedOptions) UnmarshalJSON(data []byte) error {
	var raw struct {
		Method  Method          `json:"method"`
		Options json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r, ok := registered[raw.Method]
	if !ok {
		return fmt.Errorf("unmarshalJSON: %w: %q", ErrNotImplemented,
			string(raw.Method))
	}

	value := reflect.New(r.typ)
	if len(raw.Options) > 0 && string(raw.Options) != "null" {
		if err := json.Unmarshal(raw.Options, value.Interface()); err != nil {
			return fmt.Errorf("unmarshalJSON: could not decode options "+
				"for %v: %w", raw.Method, err)
		}
	}

	t.Method = raw.Method
	t.Options = value.Elem().Interface().(Options)
	return nil
}
