package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// Source identifies where a parameter's raw value comes from.
type Source string

const (
	SourcePath  Source = "path"
	SourceQuery Source = "query"
	SourceBody  Source = "body"
)

// valueSpec is the declaration shared by parameters and record fields.
type valueSpec struct {
	typ         Type
	forced      bool
	hasDefault  bool
	dflt        any
	alias       string
	embed       bool
	constraints Constraints
	title       string
	desc        string
	err         error
}

func (s *valueSpec) isRequired() bool {
	if s.forced {
		return true
	}
	return !s.hasDefault && !s.typ.nullable
}

// check verifies that the declared constraints fit the type.
func (s *valueSpec) check() error {
	if s.err != nil {
		return s.err
	}
	if s.forced && s.hasDefault {
		return fmt.Errorf("%w: required value cannot declare a default", ErrInvalidParam)
	}
	for _, c := range s.constraints {
		switch c.Kind {
		case ConstraintGe, ConstraintGt, ConstraintLe, ConstraintLt:
			if !s.typ.IsNumeric() {
				return fmt.Errorf("%w: %s needs a numeric type, got %s", ErrInvalidParam, c.Kind, s.typ)
			}
		case ConstraintMinLength, ConstraintMaxLength:
			if !s.typ.hasLength() {
				return fmt.Errorf("%w: %s needs a string, list or set type, got %s", ErrInvalidParam, c.Kind, s.typ)
			}
		case ConstraintPattern:
			if s.typ.kind != KindString && s.typ.kind != KindURL {
				return fmt.Errorf("%w: pattern needs a string type, got %s", ErrInvalidParam, s.typ)
			}
		}
	}
	return nil
}

// normalizeDefault round-trips a Go value through JSON so that defaults
// have exactly the representation bound values have (int64, []any, ...).
func normalizeDefault(v any, t Type) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return CoerceJSON(raw, t)
}

// Option configures a parameter or a record field.
type Option func(*valueSpec)

// Required forces the value to be present even if its type is Optional.
func Required() Option {
	return func(s *valueSpec) { s.forced = true }
}

// Default declares the value bound when the parameter is absent. A
// parameter with a default is never required. The value is converted
// once, here, to the representation coercion produces.
func Default(v any) Option {
	return func(s *valueSpec) {
		s.hasDefault = true
		s.dflt = v
		if v == nil {
			return
		}
		n, err := normalizeDefault(v, s.typ)
		if err != nil {
			s.err = fmt.Errorf("%w: default %v: %w", ErrInvalidParam, v, err)
			return
		}
		s.dflt = n
	}
}

// Alias sets an alternate wire name for a query parameter.
func Alias(name string) Option {
	return func(s *valueSpec) { s.alias = name }
}

// Embed nests a body parameter's JSON under its own name even when it is
// the only body parameter.
func Embed() Option {
	return func(s *valueSpec) { s.embed = true }
}

// Title sets a human-readable title (route dumps only).
func Title(t string) Option {
	return func(s *valueSpec) { s.title = t }
}

// Description sets a human-readable description (route dumps only).
func Description(d string) Option {
	return func(s *valueSpec) { s.desc = d }
}

// Ge requires value >= bound.
func Ge(bound float64) Option { return numeric(ConstraintGe, bound) }

// Gt requires value > bound.
func Gt(bound float64) Option { return numeric(ConstraintGt, bound) }

// Le requires value <= bound.
func Le(bound float64) Option { return numeric(ConstraintLe, bound) }

// Lt requires value < bound.
func Lt(bound float64) Option { return numeric(ConstraintLt, bound) }

func numeric(kind ConstraintKind, bound float64) Option {
	return func(s *valueSpec) {
		s.constraints = s.constraints.with(Constraint{Kind: kind, Bound: bound})
	}
}

// MinLength requires at least n characters or elements.
func MinLength(n int) Option {
	return func(s *valueSpec) {
		s.constraints = s.constraints.with(Constraint{Kind: ConstraintMinLength, Bound: n})
	}
}

// MaxLength allows at most n characters or elements.
func MaxLength(n int) Option {
	return func(s *valueSpec) {
		s.constraints = s.constraints.with(Constraint{Kind: ConstraintMaxLength, Bound: n})
	}
}

// Regex requires the whole string to match the regular expression expr.
func Regex(expr string) Option {
	return func(s *valueSpec) {
		re, err := regexp.Compile(`^(?:` + expr + `)$`)
		if err != nil {
			s.err = fmt.Errorf("%w: pattern %q: %w", ErrInvalidParam, expr, err)
			return
		}
		s.constraints = s.constraints.with(Constraint{Kind: ConstraintPattern, Bound: expr, re: re})
	}
}

// Param is an immutable descriptor of one handler parameter.
type Param struct {
	Name   string
	Source Source
	spec   valueSpec
}

// PathParam declares a parameter captured from a route placeholder. Path
// parameters are always required.
func PathParam(name string, t Type, opts ...Option) Param {
	p := newParam(name, SourcePath, t, opts)
	p.spec.forced = true
	return p
}

// QueryParam declares a parameter read from the query string.
func QueryParam(name string, t Type, opts ...Option) Param {
	return newParam(name, SourceQuery, t, opts)
}

// BodyParam declares a parameter read from the JSON request body.
func BodyParam(name string, t Type, opts ...Option) Param {
	return newParam(name, SourceBody, t, opts)
}

func newParam(name string, src Source, t Type, opts []Option) Param {
	p := Param{Name: name, Source: src, spec: valueSpec{typ: t}}
	for _, opt := range opts {
		opt(&p.spec)
	}
	return p
}

// Type returns the declared type.
func (p Param) Type() Type { return p.spec.typ }

// Required reports whether the parameter must be present.
func (p Param) Required() bool { return p.spec.isRequired() }

// Default returns the default value and whether one was declared.
func (p Param) Default() (any, bool) { return p.spec.dflt, p.spec.hasDefault }

// Alias returns the alternate query name, if any.
func (p Param) Alias() string { return p.spec.alias }

// Embedded reports whether the body parameter was declared with Embed.
func (p Param) Embedded() bool { return p.spec.embed }

// Constraints returns the parameter's constraints in evaluation order.
func (p Param) Constraints() Constraints { return p.spec.constraints }

// Title returns the declared title.
func (p Param) Title() string { return p.spec.title }

// Description returns the declared description.
func (p Param) Description() string { return p.spec.desc }

// WireName is the key the parameter is looked up by in its source.
func (p Param) WireName() string {
	if p.Source == SourceQuery && p.spec.alias != "" {
		return p.spec.alias
	}
	return p.Name
}

// check validates the declaration. The returned error wraps ErrInvalidParam.
func (p *Param) check() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidParam)
	}
	t := p.spec.typ
	switch p.Source {
	case SourcePath:
		if !t.IsScalar() {
			return fmt.Errorf("%w: path parameter %q must be scalar, got %s", ErrInvalidParam, p.Name, t)
		}
		if p.spec.hasDefault {
			return fmt.Errorf("%w: path parameter %q cannot declare a default", ErrInvalidParam, p.Name)
		}
		p.spec.forced = true
	case SourceQuery:
		if !t.IsScalar() && !t.IsCollection() {
			return fmt.Errorf("%w: query parameter %q must be scalar, list or set, got %s", ErrInvalidParam, p.Name, t)
		}
		if t.IsCollection() && !t.elem.IsScalar() {
			return fmt.Errorf("%w: query parameter %q elements must be scalar", ErrInvalidParam, p.Name)
		}
	case SourceBody:
	default:
		return fmt.Errorf("%w: parameter %q: unknown source %q", ErrInvalidParam, p.Name, p.Source)
	}
	if p.spec.alias != "" && p.Source != SourceQuery {
		return fmt.Errorf("%w: parameter %q: alias applies to query parameters only", ErrInvalidParam, p.Name)
	}
	if p.spec.embed && p.Source != SourceBody {
		return fmt.Errorf("%w: parameter %q: embed applies to body parameters only", ErrInvalidParam, p.Name)
	}
	if err := p.spec.check(); err != nil {
		return fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return nil
}
