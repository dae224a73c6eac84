package binder

import (
	"fmt"
	"strings"
)

// SegmentKind classifies one segment of a route pattern.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota // exact, case-sensitive text
	SegmentParam                      // {name} or {name:kind}: one non-empty segment
	SegmentRest                       // {name:path}: everything that remains, slashes included
)

// placeholderKinds are the kinds a placeholder may declare inline.
var placeholderKinds = map[string]Kind{
	"int":    KindInt,
	"string": KindString,
	"float":  KindFloat,
	"bool":   KindBool,
	"uuid":   KindUUID,
}

// Segment is one slash-delimited piece of a pattern.
type Segment struct {
	Kind SegmentKind
	// Value is the literal text, or the placeholder name.
	Value string
	// Declared is the inline kind of a placeholder ("" when the type comes
	// from the parameter descriptor alone).
	Declared string
}

// Pattern is a parsed route pattern.
type Pattern struct {
	raw          string
	segments     []Segment
	placeholders int
	rest         bool
}

// ParsePattern parses a pattern such as "/users/{id}/files/{p:path}".
// Errors wrap ErrPatternSyntax.
func ParsePattern(s string) (Pattern, error) {
	if !strings.HasPrefix(s, "/") {
		return Pattern{}, fmt.Errorf("%w: %q must start with /", ErrPatternSyntax, s)
	}

	p := Pattern{raw: s}
	seen := make(map[string]bool)
	parts := strings.Split(s[1:], "/")
	for i, part := range parts {
		if !strings.ContainsAny(part, "{}") {
			p.segments = append(p.segments, Segment{Kind: SegmentLiteral, Value: part})
			continue
		}
		if len(part) < 2 || part[0] != '{' || part[len(part)-1] != '}' || strings.ContainsAny(part[1:len(part)-1], "{}") {
			return Pattern{}, fmt.Errorf("%w: %q: segment %q must be a whole {placeholder}", ErrPatternSyntax, s, part)
		}

		name, kind, _ := strings.Cut(part[1:len(part)-1], ":")
		name = strings.TrimSpace(name)
		kind = strings.TrimSpace(kind)
		if !isIdentifier(name) {
			return Pattern{}, fmt.Errorf("%w: %q: invalid placeholder name %q", ErrPatternSyntax, s, name)
		}
		if seen[name] {
			return Pattern{}, fmt.Errorf("%w: %q: duplicate placeholder %q", ErrPatternSyntax, s, name)
		}
		seen[name] = true

		seg := Segment{Kind: SegmentParam, Value: name, Declared: kind}
		switch {
		case kind == "path":
			if i != len(parts)-1 {
				return Pattern{}, fmt.Errorf("%w: %q: {%s:path} must be the last segment", ErrPatternSyntax, s, name)
			}
			seg = Segment{Kind: SegmentRest, Value: name}
			p.rest = true
		case kind != "":
			if _, ok := placeholderKinds[kind]; !ok {
				return Pattern{}, fmt.Errorf("%w: %q: unknown placeholder kind %q", ErrPatternSyntax, s, kind)
			}
		}
		p.placeholders++
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Placeholders returns the placeholder names in pattern order.
func (p Pattern) Placeholders() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.Kind != SegmentLiteral {
			names = append(names, seg.Value)
		}
	}
	return names
}

// shape identifies patterns that match exactly the same paths, whatever
// their placeholder names.
func (p Pattern) shape() string {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.Kind {
		case SegmentLiteral:
			b.WriteString("=")
			b.WriteString(seg.Value)
		case SegmentParam:
			b.WriteString("{}")
		case SegmentRest:
			b.WriteString("{*}")
		}
	}
	return b.String()
}

// match walks segs alongside the pattern and returns the captured values.
func (p Pattern) match(segs []string) ([]PathValue, bool) {
	var values []PathValue
	for i, seg := range p.segments {
		switch seg.Kind {
		case SegmentLiteral:
			if i >= len(segs) || segs[i] != seg.Value {
				return nil, false
			}
		case SegmentParam:
			if i >= len(segs) || segs[i] == "" {
				return nil, false
			}
			values = append(values, PathValue{Name: seg.Value, Value: segs[i]})
		case SegmentRest:
			if i >= len(segs) {
				return nil, false
			}
			values = append(values, PathValue{Name: seg.Value, Value: strings.Join(segs[i:], "/")})
			return values, true
		}
	}
	return values, len(segs) == len(p.segments)
}

// outranks reports whether p is more specific than q: fewer placeholders
// first, then no rest-of-path over rest-of-path.
func (p Pattern) outranks(q Pattern) bool {
	if p.placeholders != q.placeholders {
		return p.placeholders < q.placeholders
	}
	return !p.rest && q.rest
}

func splitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
