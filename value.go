package binder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Set is a de-duplicated collection in first-occurrence order.
type Set []any

func newSet(items []any) Set {
	seen := make(map[any]struct{}, len(items))
	out := make(Set, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Contains reports whether v is an element of s.
func (s Set) Contains(v any) bool {
	for _, it := range s {
		if it == v {
			return true
		}
	}
	return false
}

// Object is a coerced record value. Keys keep the record's field order,
// which is also the order they are encoded in.
type Object struct {
	keys   []string
	values map[string]any
}

func newObject(size int) *Object {
	return &Object{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

func (o *Object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value of a field.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the field names in record order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.keys) }

// Map returns a shallow copy of the fields as a map.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

// String returns the field value as a string, or "" if absent or not a string.
func (o *Object) String(key string) string {
	s, _ := o.values[key].(string)
	return s
}

// Int returns the field value as an int64.
func (o *Object) Int(key string) int64 {
	n, _ := o.values[key].(int64)
	return n
}

// Float returns the field value as a float64.
func (o *Object) Float(key string) float64 {
	f, _ := o.values[key].(float64)
	return f
}

// MarshalJSON encodes the fields in record order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the fields as a mapping in record order.
func (o *Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		var key, val yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		if err := val.Encode(o.values[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// cloneValue copies the mutable parts of a bound value: lists, sets and
// records. Scalars are returned as is.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case Set:
		out := make(Set, len(x))
		copy(out, x)
		return out
	case *Object:
		if x == nil {
			return x
		}
		out := newObject(len(x.keys))
		for _, k := range x.keys {
			out.set(k, cloneValue(x.values[k]))
		}
		return out
	default:
		return v
	}
}
