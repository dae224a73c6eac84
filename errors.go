package binder

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMissingRequired  = errors.New("missing required value")
	ErrMalformedBody    = errors.New("malformed body")
	ErrBodyTooLarge     = errors.New("body too large")

	// Registration errors. They abort start-up.
	ErrPatternSyntax  = errors.New("invalid route pattern")
	ErrAmbiguousRoute = errors.New("ambiguous route")
	ErrTableSealed    = errors.New("route table is sealed")
	ErrInvalidParam   = errors.New("invalid parameter declaration")
)

// KindMissingField is the CoercionError kind for an absent required record field.
const KindMissingField = "missing_field"

// Reason is the machine-readable cause of a FieldError.
type Reason string

const (
	ReasonMissingRequired Reason = "missing_required"
	ReasonCoercion        Reason = "coercion"
	ReasonConstraint      Reason = "constraint"
	ReasonMalformedBody   Reason = "malformed_body"
)

// CoercionError reports a raw value that cannot be converted to the
// declared type. Kind is the target kind ("int", "object", ...) or
// "missing_field".
type CoercionError struct {
	Kind  string
	Value any
	Loc   string
}

func (e *CoercionError) Error() string {
	var b strings.Builder
	if e.Loc != "" {
		b.WriteString(e.Loc)
		b.WriteString(": ")
	}
	if e.Kind == KindMissingField {
		b.WriteString("field required")
		return b.String()
	}
	if e.Value == nil {
		fmt.Fprintf(&b, "value is not a valid %s", e.Kind)
		return b.String()
	}
	fmt.Fprintf(&b, "%v is not a valid %s", e.Value, e.Kind)
	return b.String()
}

// ConstraintError reports a coerced value that violates a declared bound.
type ConstraintError struct {
	Constraint ConstraintKind
	Bound      any
	Actual     any
	Loc        string
}

func (e *ConstraintError) Error() string {
	msg := describeConstraint(e.Constraint, e.Bound)
	if e.Loc != "" {
		return e.Loc + ": " + msg
	}
	return msg
}

// FieldError is one entry of a failed binding. Err holds the underlying
// *CoercionError, *ConstraintError or sentinel.
type FieldError struct {
	Param      string         `json:"param,omitempty" yaml:"param,omitempty"`
	Source     Source         `json:"source" yaml:"source"`
	Loc        string         `json:"loc,omitempty" yaml:"loc,omitempty"`
	Reason     Reason         `json:"reason" yaml:"reason"`
	Kind       string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Constraint ConstraintKind `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Bound      any            `json:"bound,omitempty" yaml:"bound,omitempty"`
	Value      any            `json:"value,omitempty" yaml:"value,omitempty"`
	Message    string         `json:"message" yaml:"message"`
	Err        error          `json:"-" yaml:"-"`
}

func (e *FieldError) Error() string {
	name := e.Param
	if e.Loc != "" {
		name += "." + e.Loc
	}
	if name == "" {
		return string(e.Source) + ": " + e.Message
	}
	return string(e.Source) + " " + name + ": " + e.Message
}

func (e *FieldError) Unwrap() error { return e.Err }

// fieldError converts a coercion or constraint failure of parameter p.
func fieldError(p Param, err error) FieldError {
	fe := FieldError{Param: p.Name, Source: p.Source, Err: err}

	var ce *CoercionError
	var ve *ConstraintError
	switch {
	case errors.As(err, &ce):
		fe.Loc = ce.Loc
		if ce.Kind == KindMissingField {
			fe.Reason = ReasonMissingRequired
			fe.Kind = KindMissingField
			fe.Message = "field required"
			break
		}
		fe.Reason = ReasonCoercion
		fe.Kind = ce.Kind
		fe.Value = ce.Value
		fe.Message = "value is not a valid " + ce.Kind
	case errors.As(err, &ve):
		fe.Loc = ve.Loc
		fe.Reason = ReasonConstraint
		fe.Constraint = ve.Constraint
		fe.Bound = ve.Bound
		fe.Value = ve.Actual
		fe.Message = describeConstraint(ve.Constraint, ve.Bound)
	default:
		fe.Reason = ReasonCoercion
		fe.Message = err.Error()
	}
	return fe
}

func missingError(p Param) FieldError {
	return FieldError{
		Param:   p.Name,
		Source:  p.Source,
		Reason:  ReasonMissingRequired,
		Message: "field required",
		Err:     ErrMissingRequired,
	}
}

func malformedBodyError(cause error) FieldError {
	return FieldError{
		Source:  SourceBody,
		Reason:  ReasonMalformedBody,
		Message: cause.Error(),
		Err:     fmt.Errorf("%w: %w", ErrMalformedBody, cause),
	}
}

// BindError is a failed binding: every problem found in the request, in
// parameter declaration order.
type BindError struct {
	Errors []FieldError
}

func (e *BindError) Error() string {
	parts := make([]string, len(e.Errors))
	for i := range e.Errors {
		parts[i] = e.Errors[i].Error()
	}
	return fmt.Sprintf("%d binding error(s): %s", len(e.Errors), strings.Join(parts, "; "))
}

// StatusCode returns 422 Unprocessable Entity.
func (e *BindError) StatusCode() int { return http.StatusUnprocessableEntity }

// Unwrap exposes every field error to errors.Is and errors.As.
func (e *BindError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i := range e.Errors {
		out[i] = &e.Errors[i]
	}
	return out
}

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string       `json:"type,omitempty" yaml:"type,omitempty"`
	Title    string       `json:"title,omitempty" yaml:"title,omitempty"`
	Status   int          `json:"status" yaml:"status"`
	Detail   string       `json:"detail,omitempty" yaml:"detail,omitempty"`
	Instance string       `json:"instance,omitempty" yaml:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// problemFor converts any error into the problem document sent to clients.
func problemFor(err error) *ProblemDetail {
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		return pd
	}

	status := ErrorStatus(err)
	problem := &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}

	var be *BindError
	if errors.As(err, &be) {
		problem.Title = "Validation Failed"
		problem.Detail = fmt.Sprintf("%d parameter error(s)", len(be.Errors))
		problem.Errors = be.Errors
	}
	if status >= http.StatusInternalServerError {
		problem.Detail = http.StatusText(status)
	}
	return problem
}
