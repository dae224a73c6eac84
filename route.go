package binder

// endpoint is everything registered for one route besides its pattern.
type endpoint struct {
	params  []Param
	handler HandlerFunc
	status  int
	summary string
	desc    string
}

// RouteOption configures a route at registration time.
type RouteOption func(*endpoint)

// WithParams declares the handler's parameters, in binding order.
func WithParams(params ...Param) RouteOption {
	return func(ep *endpoint) {
		ep.params = append(ep.params, params...)
	}
}

// WithStatus sets the status code of successful responses (default 200).
func WithStatus(code int) RouteOption {
	return func(ep *endpoint) {
		ep.status = code
	}
}

// WithSummary sets a one-line summary shown in route dumps.
func WithSummary(s string) RouteOption {
	return func(ep *endpoint) {
		ep.summary = s
	}
}

// WithDescription sets a description shown in route dumps.
func WithDescription(d string) RouteOption {
	return func(ep *endpoint) {
		ep.desc = d
	}
}
