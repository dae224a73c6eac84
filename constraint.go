package binder

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"unicode/utf8"
)

// ConstraintKind names a declared bound.
type ConstraintKind string

const (
	ConstraintGe        ConstraintKind = "ge"
	ConstraintGt        ConstraintKind = "gt"
	ConstraintLe        ConstraintKind = "le"
	ConstraintLt        ConstraintKind = "lt"
	ConstraintMinLength ConstraintKind = "min_length"
	ConstraintMaxLength ConstraintKind = "max_length"
	ConstraintPattern   ConstraintKind = "pattern"
)

// constraintOrder is the evaluation order; the first violation wins.
var constraintOrder = map[ConstraintKind]int{
	ConstraintGe:        0,
	ConstraintGt:        1,
	ConstraintLe:        2,
	ConstraintLt:        3,
	ConstraintMinLength: 4,
	ConstraintMaxLength: 5,
	ConstraintPattern:   6,
}

// Constraint is a single declared bound. Bound is a float64 for numeric
// kinds, an int for lengths and the source expression for patterns.
type Constraint struct {
	Kind  ConstraintKind
	Bound any
	re    *regexp.Regexp
}

// Constraints is kept sorted in evaluation order, one entry per kind.
type Constraints []Constraint

// with returns cs with c inserted in evaluation order, replacing any
// earlier constraint of the same kind.
func (cs Constraints) with(c Constraint) Constraints {
	out := make(Constraints, 0, len(cs)+1)
	inserted := false
	for _, existing := range cs {
		if existing.Kind == c.Kind {
			continue
		}
		if !inserted && constraintOrder[c.Kind] < constraintOrder[existing.Kind] {
			out = append(out, c)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, c)
	}
	return out
}

// Validate checks an already coerced value against cs and returns the
// first violation as a *ConstraintError. A nil value (an absent optional)
// always validates.
func Validate(value any, cs Constraints) error {
	if value == nil {
		return nil
	}
	for _, c := range cs {
		if err := c.check(value); err != nil {
			return err
		}
	}
	return nil
}

func (c Constraint) check(value any) error {
	switch c.Kind {
	case ConstraintGe, ConstraintGt, ConstraintLe, ConstraintLt:
		bound, _ := c.Bound.(float64)
		cmp, reported, ok := compareNumber(value, bound)
		if !ok {
			return nil
		}
		var pass bool
		//exhaustive:ignore
		switch c.Kind {
		case ConstraintGe:
			pass = cmp >= 0
		case ConstraintGt:
			pass = cmp > 0
		case ConstraintLe:
			pass = cmp <= 0
		case ConstraintLt:
			pass = cmp < 0
		}
		if !pass {
			return &ConstraintError{Constraint: c.Kind, Bound: reported, Actual: value}
		}
	case ConstraintMinLength, ConstraintMaxLength:
		n, ok := lengthOf(value)
		if !ok {
			return nil
		}
		bound, _ := c.Bound.(int)
		if (c.Kind == ConstraintMinLength && n < bound) || (c.Kind == ConstraintMaxLength && n > bound) {
			return &ConstraintError{Constraint: c.Kind, Bound: bound, Actual: n}
		}
	case ConstraintPattern:
		s, ok := value.(string)
		if !ok || c.re == nil {
			return nil
		}
		if !c.re.MatchString(s) {
			return &ConstraintError{Constraint: c.Kind, Bound: c.Bound, Actual: s}
		}
	}
	return nil
}

// compareNumber compares value with bound using the value's own ordering.
// It returns -1, 0 or 1, the bound as it should be reported, and false if
// value is not numeric.
func compareNumber(value any, bound float64) (int, any, bool) {
	switch v := value.(type) {
	case int64:
		if bound == math.Trunc(bound) && bound >= math.MinInt64 && bound < math.MaxInt64 {
			b := int64(bound)
			return cmp.Compare(v, b), b, true
		}
		return cmp.Compare(float64(v), bound), bound, true
	case float64:
		return cmp.Compare(v, bound), bound, true
	default:
		return 0, nil, false
	}
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	case Set:
		return len(v), true
	default:
		return 0, false
	}
}

// describeConstraint renders a violation message for a constraint kind and bound.
func describeConstraint(kind ConstraintKind, bound any) string {
	switch kind {
	case ConstraintGe:
		return fmt.Sprintf("must be greater than or equal to %v", bound)
	case ConstraintGt:
		return fmt.Sprintf("must be greater than %v", bound)
	case ConstraintLe:
		return fmt.Sprintf("must be less than or equal to %v", bound)
	case ConstraintLt:
		return fmt.Sprintf("must be less than %v", bound)
	case ConstraintMinLength:
		return fmt.Sprintf("must have at least %v characters or items", bound)
	case ConstraintMaxLength:
		return fmt.Sprintf("must have at most %v characters or items", bound)
	case ConstraintPattern:
		return fmt.Sprintf("must match pattern %v", bound)
	default:
		return "violates " + string(kind)
	}
}
