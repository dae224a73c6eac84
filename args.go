package binder

import "github.com/google/uuid"

// Args holds the bound parameter values of one request, keyed by
// parameter name. Values have the coerced representation:
//
//	int     int64
//	float   float64
//	bool    bool
//	string  string (url too)
//	uuid    uuid.UUID
//	list    []any
//	set     Set
//	record  *Object
//
// An absent optional parameter holds its default, which may be nil.
type Args map[string]any

// Arg returns the named value converted to T.
func Arg[T any](a Args, name string) (T, bool) {
	v, ok := a[name].(T)
	return v, ok
}

// Has reports whether name is bound to a non-nil value.
func (a Args) Has(name string) bool {
	return a[name] != nil
}

func (a Args) String(name string) string {
	s, _ := Arg[string](a, name)
	return s
}

func (a Args) Int(name string) int64 {
	n, _ := Arg[int64](a, name)
	return n
}

func (a Args) Float(name string) float64 {
	f, _ := Arg[float64](a, name)
	return f
}

func (a Args) Bool(name string) bool {
	b, _ := Arg[bool](a, name)
	return b
}

func (a Args) UUID(name string) uuid.UUID {
	id, _ := Arg[uuid.UUID](a, name)
	return id
}

func (a Args) Object(name string) *Object {
	o, _ := Arg[*Object](a, name)
	return o
}

// List returns a list or set value as a slice.
func (a Args) List(name string) []any {
	switch v := a[name].(type) {
	case []any:
		return v
	case Set:
		return v
	default:
		return nil
	}
}

// Strings returns the string elements of a list or set value.
func (a Args) Strings(name string) []string {
	items := a.List(name)
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
