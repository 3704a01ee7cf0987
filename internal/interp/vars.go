package interp

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
)

// Kind tells which variant a Value holds.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a variable's evaluated content: a number or a boolean.
type Value struct {
	Kind   Kind
	Number float64
	Bool   bool
}

// NumberValue wraps f.
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// BoolValue wraps b.
func BoolValue(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// Float returns the numeric view of v. Booleans are 1 or 0.
func (v Value) Float() float64 {
	if v.Kind == KindBoolean {
		if v.Bool {
			return 1
		}
		return 0
	}
	return v.Number
}

func (v Value) String() string {
	if v.Kind == KindBoolean {
		return strconv.FormatBool(v.Bool)
	}
	return formatNumber(v.Number)
}

// valueJSON is the wire form of a Value. Numbers that JSON cannot carry
// (NaN, ±Inf) travel as strings.
type valueJSON struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var raw []byte
	switch {
	case v.Kind == KindBoolean:
		raw = []byte(strconv.FormatBool(v.Bool))
	case math.IsNaN(v.Number) || math.IsInf(v.Number, 0):
		raw = []byte(strconv.Quote(formatNumber(v.Number)))
	default:
		raw = []byte(formatNumber(v.Number))
	}
	return json.Marshal(valueJSON{Kind: v.Kind.String(), Value: raw})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "boolean":
		v.Kind = KindBoolean
		return json.Unmarshal(w.Value, &v.Bool)
	case "number":
		v.Kind = KindNumber
		var text string
		if err := json.Unmarshal(w.Value, &text); err == nil {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("invalid number %q: %w", text, err)
			}
			v.Number = f
			return nil
		}
		return json.Unmarshal(w.Value, &v.Number)
	default:
		return fmt.Errorf("unknown value kind %q", w.Kind)
	}
}

// Variable is one entry of the variable store.
type Variable struct {
	// Raw is the unevaluated source text given at assignment
	Raw string `json:"raw"`

	// Value is the evaluated content
	Value Value `json:"value"`

	// Writable is false for loop variables
	Writable bool `json:"writable"`
}

// Variables is a flat name to Variable store. There is no block scoping:
// loop variables stay visible after their loop ends.
type Variables struct {
	vars map[string]Variable
}

// NewVariables creates an empty store.
func NewVariables() *Variables {
	return &Variables{vars: make(map[string]Variable)}
}

// Lookup returns the variable bound to name.
func (s *Variables) Lookup(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Declare creates or overwrites a writable variable. It fails with
// ErrImmutable if name is bound to a non-writable variable, leaving the old
// value in place.
func (s *Variables) Declare(name, raw string, value Value) error {
	if old, ok := s.vars[name]; ok && !old.Writable {
		return &Error{
			Kind: ErrImmutable,
			Msg:  fmt.Sprintf("variable %q cannot be changed", name),
		}
	}
	s.vars[name] = Variable{Raw: raw, Value: value, Writable: true}
	return nil
}

// Bind replaces name with a non-writable number, as repeat does for its loop
// variable on every iteration.
func (s *Variables) Bind(name string, i int) {
	s.vars[name] = Variable{
		Raw:      strconv.Itoa(i),
		Value:    NumberValue(float64(i)),
		Writable: false,
	}
}

// Clear removes every variable.
func (s *Variables) Clear() {
	clear(s.vars)
}

// Restore replaces the store's contents with a copy of saved, as returned
// by Snapshot.
func (s *Variables) Restore(saved map[string]Variable) {
	clear(s.vars)
	maps.Copy(s.vars, saved)
}

// Snapshot copies the store into a plain map.
func (s *Variables) Snapshot() map[string]Variable {
	return maps.Clone(s.vars)
}

// formatNumber prints f the shortest way that round-trips, without an
// exponent.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
