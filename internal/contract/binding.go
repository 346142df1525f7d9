package contract

import (
	"bytes"
	"encoding/json"

	"github.com/iliyamo/event-records/internal/model"
)

// Binding ties a payload field to its destination and refinements.
type Binding[T any] struct {
	name    string
	dst     *Opt[T]
	parse   func(json.RawMessage) (T, bool)
	invalid string
	rules   []Rule[T]
	key     bool
}

// Key marks the field as part of the record identity: required on create,
// rejected on update.
func (b *Binding[T]) Key() *Binding[T] {
	b.key = true
	return b
}

// Name returns the wire name of the field.
func (b *Binding[T]) Name() string { return b.name }

// Present reports whether the field was bound from the payload.
func (b *Binding[T]) Present() bool { return b.dst.Set }

func (b *Binding[T]) required() bool  { return true }
func (b *Binding[T]) immutable() bool { return b.key }

func (b *Binding[T]) decode(raw json.RawMessage) []string {
	v, ok := b.parse(raw)
	if !ok {
		return []string{b.invalid}
	}
	var msgs []string
	for _, rule := range b.rules {
		if msg := rule(v); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) > 0 {
		return msgs
	}
	*b.dst = Some(v)
	return nil
}

// String binds a JSON string field.
func String(name string, dst *Opt[string], rules ...Rule[string]) *Binding[string] {
	return &Binding[string]{name: name, dst: dst, parse: parseString, invalid: "Not a valid string.", rules: rules}
}

// Int binds a JSON integer field.
func Int(name string, dst *Opt[int64], rules ...Rule[int64]) *Binding[int64] {
	return &Binding[int64]{name: name, dst: dst, parse: parseInt, invalid: "Not a valid integer.", rules: rules}
}

// Date binds an ISO calendar date field ("YYYY-MM-DD").
func Date(name string, dst *Opt[model.Date], rules ...Rule[model.Date]) *Binding[model.Date] {
	return &Binding[model.Date]{name: name, dst: dst, parse: parseDate, invalid: "Not a valid date.", rules: rules}
}

func parseString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseInt(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func parseDate(raw json.RawMessage) (model.Date, bool) {
	var d model.Date
	if err := d.UnmarshalJSON(bytes.TrimSpace(raw)); err != nil {
		return model.Date{}, false
	}
	return d, true
}
