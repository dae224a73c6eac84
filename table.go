package binder

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

// Route is a registered method and pattern.
type Route struct {
	Method  string
	Pattern Pattern

	// ep is attached by the Router; a bare Table leaves it nil.
	ep *endpoint
}

// PathValue is one captured placeholder.
type PathValue struct {
	Name  string
	Value string
}

// Match is the result of a successful lookup.
type Match struct {
	Route  *Route
	Values []PathValue
}

// Value returns the raw captured text of the named placeholder.
func (m Match) Value(name string) (string, bool) {
	for _, pv := range m.Values {
		if pv.Name == name {
			return pv.Value, true
		}
	}
	return "", false
}

// Table holds route patterns per method, each list kept in rank order.
// Registration is not safe for use concurrently with Match; register
// everything, then Seal, then serve. After Seal the table is read-only and
// may be shared freely.
type Table struct {
	byMethod map[string][]*Route
	all      []*Route
	shapes   map[string]*Route
	sealed   atomic.Bool
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{
		byMethod: make(map[string][]*Route),
		shapes:   make(map[string]*Route),
	}
}

// Register parses pattern and adds it for method. It fails with
// ErrPatternSyntax, ErrAmbiguousRoute (a structurally identical pattern is
// already registered for method) or ErrTableSealed.
func (t *Table) Register(method, pattern string) (*Route, error) {
	if t.sealed.Load() {
		return nil, fmt.Errorf("%w: %s %s", ErrTableSealed, method, pattern)
	}
	method = strings.ToUpper(method)
	if method == "" {
		return nil, fmt.Errorf("%w: %q: empty method", ErrPatternSyntax, pattern)
	}

	p, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	key := method + " " + p.shape()
	if prev, ok := t.shapes[key]; ok {
		return nil, fmt.Errorf("%w: %s %s conflicts with %s", ErrAmbiguousRoute, method, pattern, prev.Pattern)
	}

	rt := &Route{Method: method, Pattern: p}
	t.shapes[key] = rt
	t.all = append(t.all, rt)

	// Insert after every route that ranks at least as high, so equal ranks
	// stay in registration order.
	list := t.byMethod[method]
	i := slices.IndexFunc(list, func(other *Route) bool {
		return p.outranks(other.Pattern)
	})
	if i < 0 {
		i = len(list)
	}
	t.byMethod[method] = slices.Insert(list, i, rt)
	return rt, nil
}

// Seal ends the registration phase.
func (t *Table) Seal() { t.sealed.Store(true) }

// Sealed reports whether Seal was called.
func (t *Table) Sealed() bool { return t.sealed.Load() }

// Match returns the most specific route of method matching path. Ill-typed
// placeholder values still match; their coercion happens at bind time.
func (t *Table) Match(method, path string) (Match, bool) {
	segs := splitPath(path)
	for _, rt := range t.byMethod[strings.ToUpper(method)] {
		if values, ok := rt.Pattern.match(segs); ok {
			return Match{Route: rt, Values: values}, true
		}
	}
	return Match{}, false
}

// Allowed returns, sorted, the methods that have a route matching path.
func (t *Table) Allowed(path string) []string {
	segs := splitPath(path)
	var methods []string
	for method, routes := range t.byMethod {
		for _, rt := range routes {
			if _, ok := rt.Pattern.match(segs); ok {
				methods = append(methods, method)
				break
			}
		}
	}
	slices.Sort(methods)
	return methods
}

// Routes returns all routes in registration order.
func (t *Table) Routes() []*Route {
	return slices.Clone(t.all)
}
