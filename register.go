package binder

import (
	"fmt"
	"net/http"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addEndpoint(method, pattern string, ep *endpoint) error
}

// Register adds a route. Declaration problems (bad pattern syntax, an
// ambiguous pattern, parameters that do not fit the pattern, registering
// after serving started) are programming errors and panic, the way
// http.ServeMux does.
func Register(reg Registrar, method, pattern string, h HandlerFunc, opts ...RouteOption) {
	if err := TryRegister(reg, method, pattern, h, opts...); err != nil {
		panic(fmt.Sprintf("binder: %s %s: %v", method, pattern, err))
	}
}

// TryRegister is Register returning the declaration error instead of
// panicking.
func TryRegister(reg Registrar, method, pattern string, h HandlerFunc, opts ...RouteOption) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", ErrInvalidParam)
	}
	ep := &endpoint{handler: h}
	for _, opt := range opts {
		opt(ep)
	}
	return reg.addEndpoint(method, pattern, ep)
}

// Get registers a GET handler.
func Get(reg Registrar, pattern string, h HandlerFunc, opts ...RouteOption) {
	Register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post(reg Registrar, pattern string, h HandlerFunc, opts ...RouteOption) {
	Register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put(reg Registrar, pattern string, h HandlerFunc, opts ...RouteOption) {
	Register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch(reg Registrar, pattern string, h HandlerFunc, opts ...RouteOption) {
	Register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete(reg Registrar, pattern string, h HandlerFunc, opts ...RouteOption) {
	Register(reg, http.MethodDelete, pattern, h, opts...)
}

// checkEndpoint verifies the parameters against the parsed pattern: every
// placeholder has exactly one path parameter of a compatible type and
// parameter names are unique.
func checkEndpoint(p Pattern, ep *endpoint) error {
	names := make(map[string]bool, len(ep.params))
	paths := make(map[string]Param)
	for i := range ep.params {
		param := &ep.params[i]
		if err := param.check(); err != nil {
			return err
		}
		if names[param.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidParam, param.Name)
		}
		names[param.Name] = true
		if param.Source == SourcePath {
			paths[param.Name] = *param
		}
	}

	for _, seg := range p.segments {
		if seg.Kind == SegmentLiteral {
			continue
		}
		param, ok := paths[seg.Value]
		if !ok {
			return fmt.Errorf("%w: placeholder {%s} has no path parameter", ErrInvalidParam, seg.Value)
		}
		delete(paths, seg.Value)

		kind := param.spec.typ.kind
		if seg.Kind == SegmentRest && kind != KindString {
			return fmt.Errorf("%w: rest-of-path parameter %q must be a string", ErrInvalidParam, seg.Value)
		}
		if seg.Declared != "" && placeholderKinds[seg.Declared] != kind {
			return fmt.Errorf("%w: placeholder {%s:%s} declared as %s", ErrInvalidParam, seg.Value, seg.Declared, param.spec.typ)
		}
	}
	for name := range paths {
		return fmt.Errorf("%w: path parameter %q has no placeholder", ErrInvalidParam, name)
	}
	return nil
}
