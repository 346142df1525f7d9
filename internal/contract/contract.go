// Package contract declares the field contracts request payloads are
// checked against.  Each entity lists its fields explicitly as typed
// bindings onto Opt values; Decode walks that list, so a field is either
// present (and valid) or absent, and every offending field is reported at
// once.
package contract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Mode selects how required fields are treated.
type Mode int

const (
	// Create requires every required field to be present.
	Create Mode = iota
	// Update accepts any subset of fields and rejects key fields.
	Update
)

// SchemaKey is the Errors key used for problems with the payload as a whole.
const SchemaKey = "_schema"

// Messages reported by Decode.  Existing clients match on this wording.
const (
	MsgMissing   = "Missing data for required field."
	MsgNull      = "Field may not be null."
	MsgUnknown   = "Unknown field."
	MsgImmutable = "Field cannot be changed."
	MsgInput     = "Invalid input type."
)

// Opt is a payload value that is either present or absent.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Set: true} }

// Or returns the value when present and def otherwise.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// Errors maps a field name to its validation messages.
type Errors map[string][]string

// Add appends msg to the messages of field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Fields returns the offending field names in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return strings.Join(parts, "; ")
}

// Field is one entry of an entity's contract.  Implementations are the
// typed bindings returned by String, Int and Date.
type Field interface {
	Name() string
	Present() bool
	required() bool
	immutable() bool
	decode(raw json.RawMessage) []string
}

// Decode parses body as a JSON object and binds every listed field.  It
// returns nil when the payload satisfies the contract for mode.
func Decode(body []byte, mode Mode, fields ...Field) Errors {
	errs := Errors{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		errs.Add(SchemaKey, MsgInput)
		return errs
	}

	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name()] = true
		v, ok := raw[f.Name()]
		switch {
		case !ok:
			if mode == Create && f.required() {
				errs.Add(f.Name(), MsgMissing)
			}
		case mode == Update && f.immutable():
			errs.Add(f.Name(), MsgImmutable)
		case string(v) == "null":
			errs.Add(f.Name(), MsgNull)
		default:
			for _, msg := range f.decode(v) {
				errs.Add(f.Name(), msg)
			}
		}
	}
	for name := range raw {
		if !known[name] {
			errs.Add(name, MsgUnknown)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Present returns the names of the fields that were bound from the payload.
func Present(fields ...Field) []string {
	var out []string
	for _, f := range fields {
		if f.Present() {
			out = append(out, f.Name())
		}
	}
	return out
}
