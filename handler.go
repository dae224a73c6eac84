package binder

import (
	"context"
	"net/http"
)

// HandlerFunc is a route handler. It receives the bound, validated
// arguments and returns a value to encode, or an error. A nil value with a
// nil error produces 204 No Content.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Response is what the engine hands back to the host transport.
type Response struct {
	Status int
	Header http.Header
	// Value is the handler's result, or a *ProblemDetail on failure.
	Value any
	// Err is the cause of a failure response.
	Err error
}

func problemResponse(err error) *Response {
	pd := problemFor(err)
	return &Response{
		Status: pd.Status,
		Header: make(http.Header),
		Value:  pd,
		Err:    err,
	}
}
