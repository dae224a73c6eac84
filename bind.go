package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// Request is what the host transport hands to the engine.
type Request struct {
	Method string
	Path   string
	// Query is the parsed query string. When nil, RawQuery is parsed.
	Query    url.Values
	RawQuery string
	Header   http.Header
	Body     []byte
}

func (r *Request) queryValues() url.Values {
	if r.Query != nil {
		return r.Query
	}
	// ParseQuery keeps every pair it could parse; a stray bad escape does
	// not hide the rest of the query.
	q, _ := url.ParseQuery(r.RawQuery)
	return q
}

// Bind pulls every declared parameter out of req, coerces and validates
// it. It never stops at the first problem: on failure the returned error
// is a *BindError listing every parameter error in declaration order, and
// no Args are returned.
func Bind(req *Request, m Match, params []Param) (Args, error) {
	args := make(Args, len(params))
	var errs []FieldError

	var query url.Values
	body := newBodyReader(req.Body, params)

	for _, p := range params {
		switch p.Source {
		case SourcePath:
			raw, ok := m.Value(p.Name)
			if !ok {
				errs = append(errs, missingError(p))
				continue
			}
			v, err := CoerceText(raw, p.spec.typ)
			errs = bindValue(args, errs, p, v, err)

		case SourceQuery:
			if query == nil {
				query = req.queryValues()
			}
			raws, ok := query[p.WireName()]
			if !ok || len(raws) == 0 {
				errs = bindAbsent(args, errs, p)
				continue
			}
			v, err := CoerceValues(raws, p.spec.typ)
			errs = bindValue(args, errs, p, v, err)

		case SourceBody:
			if body.failed {
				continue
			}
			raw, ok, err := body.lookup(p)
			if err != nil {
				errs = append(errs, malformedBodyError(err))
				continue
			}
			if !ok {
				errs = bindAbsent(args, errs, p)
				continue
			}
			v, err := CoerceJSON(raw, p.spec.typ)
			errs = bindValue(args, errs, p, v, err)
		}
	}

	if len(errs) > 0 {
		return nil, &BindError{Errors: errs}
	}
	return args, nil
}

func bindValue(args Args, errs []FieldError, p Param, v any, err error) []FieldError {
	if err != nil {
		for _, e := range flattenErrors(err) {
			errs = append(errs, fieldError(p, e))
		}
		return errs
	}
	if err := Validate(v, p.spec.constraints); err != nil {
		return append(errs, fieldError(p, err))
	}
	args[p.Name] = v
	return errs
}

func bindAbsent(args Args, errs []FieldError, p Param) []FieldError {
	if p.spec.isRequired() {
		return append(errs, missingError(p))
	}
	args[p.Name] = cloneValue(p.spec.dflt)
	return errs
}

// bodyReader decodes the JSON payload once, on first use, and hands out
// each body parameter's raw value.
type bodyReader struct {
	raw      []byte
	singular bool
	parsed   bool
	present  bool
	payload  any
	failed   bool
}

func newBodyReader(raw []byte, params []Param) *bodyReader {
	var body []Param
	for _, p := range params {
		if p.Source == SourceBody {
			body = append(body, p)
		}
	}
	return &bodyReader{
		raw:      raw,
		singular: len(body) == 1 && !body[0].spec.embed && !body[0].spec.typ.IsScalar(),
	}
}

// lookup returns the raw JSON value of p and whether it was present. A
// non-nil error means the payload is unusable; it is reported once.
func (b *bodyReader) lookup(p Param) (any, bool, error) {
	if !b.parsed {
		b.parsed = true
		if err := b.parse(); err != nil {
			b.failed = true
			return nil, false, err
		}
	}
	if !b.present {
		return nil, false, nil
	}
	if b.singular {
		return b.payload, true, nil
	}
	obj := b.payload.(map[string]any)
	v, ok := obj[p.Name]
	return v, ok, nil
}

func (b *bodyReader) parse() error {
	if len(bytes.TrimSpace(b.raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b.raw))
	dec.UseNumber()
	if err := dec.Decode(&b.payload); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	if !b.singular {
		if _, ok := b.payload.(map[string]any); !ok {
			return errors.New("expected a JSON object keyed by parameter name")
		}
	}
	b.present = true
	return nil
}
