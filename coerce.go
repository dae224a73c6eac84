package binder

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Bool literals accepted by textual coercion, compared case-insensitively.
var (
	trueLiterals  = map[string]bool{"1": true, "true": true, "yes": true, "on": true}
	falseLiterals = map[string]bool{"0": true, "false": true, "no": true, "off": true}
)

// floatSyntax admits decimal and scientific notation only; ParseFloat on
// its own would also take "inf", "nan" and hex floats.
var floatSyntax = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// CoerceText converts a path segment or query value into t.
//
//	int    -> int64     optional sign and ASCII digits
//	float  -> float64   decimal or scientific notation
//	bool   -> bool      1/true/yes/on, 0/false/no/off (any case)
//	string -> string    unchanged
//	uuid   -> uuid.UUID
//	url    -> string    absolute http or https URL
//
// Lists and sets are built from a single occurrence; see CoerceValues.
func CoerceText(raw string, t Type) (any, error) {
	if t.IsCollection() {
		return CoerceValues([]string{raw}, t)
	}
	return coerceScalar(raw, t)
}

func coerceScalar(raw string, t Type) (any, error) {
	fail := &CoercionError{Kind: t.kind.String(), Value: raw}

	//exhaustive:ignore
	switch t.kind {
	case KindString:
		return raw, nil
	case KindInt:
		if !isInteger(raw) {
			return nil, fail
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fail
		}
		return n, nil
	case KindFloat:
		if !floatSyntax.MatchString(raw) {
			return nil, fail
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fail
		}
		return f, nil
	case KindBool:
		lower := strings.ToLower(raw)
		switch {
		case trueLiterals[lower]:
			return true, nil
		case falseLiterals[lower]:
			return false, nil
		}
		return nil, fail
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fail
		}
		return id, nil
	case KindURL:
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fail
		}
		return raw, nil
	default:
		return nil, fail
	}
}

func isInteger(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CoerceValues converts every occurrence of a repeated query key. A list
// keeps occurrence order and duplicates; a set drops duplicates by coerced
// value and keeps first-occurrence order. For a scalar t only the first
// occurrence is used. Every failing occurrence is reported.
func CoerceValues(raws []string, t Type) (any, error) {
	if !t.IsCollection() {
		if len(raws) == 0 {
			return nil, &CoercionError{Kind: t.kind.String()}
		}
		return coerceScalar(raws[0], t)
	}

	var errs []error
	items := make([]any, 0, len(raws))
	for i, raw := range raws {
		v, err := coerceScalar(raw, *t.elem)
		if err != nil {
			errs = append(errs, locate(err, indexLoc("", i)))
			continue
		}
		items = append(items, v)
	}
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	if t.kind == KindSet {
		return newSet(items), nil
	}
	return items, nil
}

// CoerceJSON converts a decoded JSON value into t. Numbers are expected as
// json.Number (decode with UseNumber) but float64 is accepted too.
//
// Records ignore unknown keys, report each missing required field with
// kind "missing_field" and validate field constraints once a field has
// been coerced. All problems inside a structured value are returned
// together, each located by a dotted path such as "items[0].price".
func CoerceJSON(v any, t Type) (any, error) {
	var errs []error
	out := decodeJSON(v, t, "", &errs)
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	return out, nil
}

func decodeJSON(v any, t Type, loc string, errs *[]error) any {
	if v == nil {
		if t.nullable {
			return nil
		}
		*errs = append(*errs, &CoercionError{Kind: t.kind.String(), Loc: loc})
		return nil
	}

	//exhaustive:ignore
	switch t.kind {
	case KindList, KindSet:
		arr, ok := v.([]any)
		if !ok {
			*errs = append(*errs, &CoercionError{Kind: t.kind.String(), Value: v, Loc: loc})
			return nil
		}
		before := len(*errs)
		items := make([]any, 0, len(arr))
		for i, elem := range arr {
			items = append(items, decodeJSON(elem, *t.elem, indexLoc(loc, i), errs))
		}
		if len(*errs) > before {
			return nil
		}
		if t.kind == KindSet {
			return newSet(items)
		}
		return items
	case KindRecord:
		m, ok := v.(map[string]any)
		if !ok {
			*errs = append(*errs, &CoercionError{Kind: t.kind.String(), Value: v, Loc: loc})
			return nil
		}
		return decodeRecord(m, t.record, loc, errs)
	default:
		out, err := coerceJSONScalar(v, t)
		if err != nil {
			*errs = append(*errs, locate(err, loc))
			return nil
		}
		return out
	}
}

func decodeRecord(m map[string]any, r *Record, loc string, errs *[]error) *Object {
	obj := newObject(len(r.fields))
	for _, f := range r.fields {
		at := fieldLoc(loc, f.Name)
		raw, present := m[f.Name]
		if !present {
			if f.spec.isRequired() {
				*errs = append(*errs, &CoercionError{Kind: KindMissingField, Loc: at})
				continue
			}
			obj.set(f.Name, cloneValue(f.spec.dflt))
			continue
		}
		before := len(*errs)
		val := decodeJSON(raw, f.spec.typ, at, errs)
		if len(*errs) > before {
			continue
		}
		if err := Validate(val, f.spec.constraints); err != nil {
			*errs = append(*errs, locate(err, at))
			continue
		}
		obj.set(f.Name, val)
	}
	return obj
}

func coerceJSONScalar(v any, t Type) (any, error) {
	fail := &CoercionError{Kind: t.kind.String(), Value: v}

	switch x := v.(type) {
	case string:
		if t.kind == KindString {
			return x, nil
		}
		return coerceScalar(x, t)
	case bool:
		if t.kind == KindBool {
			return x, nil
		}
	case json.Number:
		return coerceNumber(string(x), t, fail)
	case float64:
		return coerceNumber(strconv.FormatFloat(x, 'g', -1, 64), t, fail)
	}
	return nil, fail
}

func coerceNumber(lit string, t Type, fail *CoercionError) (any, error) {
	//exhaustive:ignore
	switch t.kind {
	case KindInt:
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return n, nil
		}
		n, ok := wholeNumber(lit)
		if !ok {
			return nil, fail
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fail
		}
		return f, nil
	case KindBool:
		return coerceScalar(lit, t)
	default:
		return nil, fail
	}
}

// maxExponent bounds the exponent of a number literal taken for an int.
// Anything larger cannot be a whole int64 and would be costly to expand.
const maxExponent = 1000

// wholeNumber converts a JSON number literal written with a fraction or an
// exponent ("5.0", "1e3") to an int64 when its exact value is a whole
// number in range.
func wholeNumber(lit string) (int64, bool) {
	if _, exp, ok := strings.Cut(strings.ToLower(lit), "e"); ok {
		e, err := strconv.Atoi(exp)
		if err != nil || e > maxExponent || e < -maxExponent {
			return 0, false
		}
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok || !r.IsInt() || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}

// locate attaches a location to a coercion or constraint error.
func locate(err error, loc string) error {
	if loc == "" {
		return err
	}
	var ce *CoercionError
	if errors.As(err, &ce) {
		cp := *ce
		cp.Loc = loc
		return &cp
	}
	var ve *ConstraintError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Loc = loc
		return &cp
	}
	return err
}

func fieldLoc(loc, name string) string {
	if loc == "" {
		return name
	}
	return loc + "." + name
}

func indexLoc(loc string, i int) string {
	return loc + "[" + strconv.Itoa(i) + "]"
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// flattenErrors expands an errors.Join tree into its leaves.
func flattenErrors(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}
