package binder

import "fmt"

// Kind identifies the shape of a declared value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindUUID
	KindURL
	KindList
	KindSet
	KindRecord
)

var kindNames = map[Kind]string{
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindUUID:   "uuid",
	KindURL:    "url",
	KindList:   "list",
	KindSet:    "set",
	KindRecord: "object",
}

// String returns the wire name of the kind, as used in CoercionError.Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type is an immutable value type descriptor. The zero Type is String.
type Type struct {
	kind     Kind
	elem     *Type
	record   *Record
	nullable bool
}

// Scalar types.
var (
	String = Type{kind: KindString}
	Int    = Type{kind: KindInt}
	Float  = Type{kind: KindFloat}
	Bool   = Type{kind: KindBool}
	UUID   = Type{kind: KindUUID}
	URL    = Type{kind: KindURL}
)

// ListOf returns an ordered sequence of elem. Order and duplicates are kept.
func ListOf(elem Type) Type {
	return Type{kind: KindList, elem: &elem}
}

// SetOf returns a set of elem. Elements must be scalar; duplicates are
// dropped by coerced value.
func SetOf(elem Type) Type {
	if !elem.IsScalar() {
		panic(fmt.Sprintf("binder: set element must be scalar, got %s", elem))
	}
	return Type{kind: KindSet, elem: &elem}
}

// RecordOf returns the type of a structured record value.
func RecordOf(r *Record) Type {
	if r == nil {
		panic("binder: RecordOf(nil)")
	}
	return Type{kind: KindRecord, record: r}
}

// Optional marks t as accepting JSON null. An optional value that is not
// present binds as nil.
func Optional(t Type) Type {
	t.nullable = true
	return t
}

// Kind returns the kind of t.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of a list or set.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// Record returns the record of a record type, or nil.
func (t Type) Record() *Record { return t.record }

// Nullable reports whether t was wrapped with Optional.
func (t Type) Nullable() bool { return t.nullable }

// IsScalar reports whether t is a single textual value.
func (t Type) IsScalar() bool {
	//exhaustive:ignore
	switch t.kind {
	case KindString, KindInt, KindFloat, KindBool, KindUUID, KindURL:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t orders numerically.
func (t Type) IsNumeric() bool {
	return t.kind == KindInt || t.kind == KindFloat
}

// IsCollection reports whether t is a list or a set.
func (t Type) IsCollection() bool {
	return t.kind == KindList || t.kind == KindSet
}

// hasLength reports whether length constraints apply to t.
func (t Type) hasLength() bool {
	return t.kind == KindString || t.kind == KindURL || t.IsCollection()
}

// String renders t the way it appears in route dumps, e.g. "list[int]".
func (t Type) String() string {
	var s string
	switch {
	case t.kind == KindRecord:
		s = t.record.Name()
	case t.IsCollection():
		s = t.kind.String() + "[" + t.elem.String() + "]"
	default:
		s = t.kind.String()
	}
	if t.nullable {
		s += "?"
	}
	return s
}

// Record is a named structured type with ordered, uniquely named fields.
type Record struct {
	name   string
	fields []FieldDef
	index  map[string]int
}

// FieldDef describes one field of a Record.
type FieldDef struct {
	Name string
	spec valueSpec
}

// Field declares a record field. Options that only make sense for request
// parameters (Alias, Embed) are rejected by NewRecord.
func Field(name string, t Type, opts ...Option) FieldDef {
	f := FieldDef{Name: name, spec: valueSpec{typ: t}}
	for _, opt := range opts {
		opt(&f.spec)
	}
	return f
}

// Type returns the declared type of the field.
func (f FieldDef) Type() Type { return f.spec.typ }

// Required reports whether the field must be present in the JSON object.
func (f FieldDef) Required() bool { return f.spec.isRequired() }

// Default returns the normalised default value and whether one was declared.
func (f FieldDef) Default() (any, bool) { return f.spec.dflt, f.spec.hasDefault }

// Constraints returns the field's constraints in evaluation order.
func (f FieldDef) Constraints() Constraints { return f.spec.constraints }

// NewRecord declares a record. It panics on duplicate or empty field names
// and on invalid field declarations; records are declared at start-up.
func NewRecord(name string, fields ...FieldDef) *Record {
	r := &Record{
		name:   name,
		fields: make([]FieldDef, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("binder: record %s: empty field name", name))
		}
		if _, dup := r.index[f.Name]; dup {
			panic(fmt.Sprintf("binder: record %s: duplicate field %q", name, f.Name))
		}
		if f.spec.alias != "" || f.spec.embed {
			panic(fmt.Sprintf("binder: record %s: field %q: alias and embed apply to parameters only", name, f.Name))
		}
		if err := f.spec.check(); err != nil {
			panic(fmt.Sprintf("binder: record %s: field %q: %v", name, f.Name, err))
		}
		r.index[f.Name] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

// Name returns the record name.
func (r *Record) Name() string { return r.name }

// Fields returns the fields in declaration order.
func (r *Record) Fields() []FieldDef {
	out := make([]FieldDef, len(r.fields))
	copy(out, r.fields)
	return out
}

// Lookup returns the field with the given name.
func (r *Record) Lookup(name string) (FieldDef, bool) {
	i, ok := r.index[name]
	if !ok {
		return FieldDef{}, false
	}
	return r.fields[i], true
}
