package binder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Router owns the route table and is the engine's single entry point:
// Handle for any host transport, ServeHTTP for net/http.
type Router struct {
	table      *Table
	middleware []Middleware

	title   string
	version string

	logger    *slog.Logger
	metrics   *Metrics
	encoders  []Encoder
	codecs    *codecRegistry
	bodyLimit int64

	mu   sync.Mutex
	once sync.Once
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the title shown in route dumps.
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the version shown in route dumps.
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithLogger sets the logger for handler failures (error level) and
// rejected requests (debug level). Defaults to slog.Default().
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every dispatch in m.
func WithMetrics(m *Metrics) RouterOption {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) {
		r.encoders = append(r.encoders, enc)
	}
}

// WithBodyLimit caps request bodies read by ServeHTTP. Larger bodies are
// answered with 413. Zero means DefaultBodyLimit.
func WithBodyLimit(maxBytes int64) RouterOption {
	return func(r *Router) {
		r.bodyLimit = maxBytes
	}
}

// DefaultBodyLimit is the body cap used when WithBodyLimit is not given (1 MB).
const DefaultBodyLimit = 1 << 20

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		table:  NewTable(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bodyLimit <= 0 {
		r.bodyLimit = DefaultBodyLimit
	}
	r.codecs = newCodecRegistry(r.encoders)
	return r
}

// Use adds HTTP middleware around ServeHTTP. Middleware is applied in the
// order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Table returns the router's route table.
func (r *Router) Table() *Table { return r.table }

// addEndpoint registers ep under method and pattern.
func (r *Router) addEndpoint(method, pattern string, ep *endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := ParsePattern(pattern)
	if err != nil {
		return err
	}
	if err := checkEndpoint(p, ep); err != nil {
		return err
	}
	rt, err := r.table.Register(method, pattern)
	if err != nil {
		return err
	}
	if ep.status == 0 {
		ep.status = http.StatusOK
	}
	rt.ep = ep
	return nil
}

// Handle dispatches one request: match, bind, invoke. It never panics on
// bad input; every failure becomes a problem response. The first call
// seals the route table.
func (r *Router) Handle(ctx context.Context, req *Request) *Response {
	r.once.Do(r.table.Seal)
	start := time.Now()

	m, ok := r.table.Match(req.Method, req.Path)
	if !ok {
		resp := r.unmatched(req)
		r.metrics.observe(req.Method, "", resp, start)
		return resp
	}

	resp := r.dispatch(ctx, req, m)
	r.metrics.observe(req.Method, m.Route.Pattern.String(), resp, start)
	return resp
}

func (r *Router) unmatched(req *Request) *Response {
	if allowed := r.table.Allowed(req.Path); len(allowed) > 0 {
		resp := problemResponse(&ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(http.StatusMethodNotAllowed),
			Status: http.StatusMethodNotAllowed,
			Detail: fmt.Sprintf("%s is not allowed on %s", req.Method, req.Path),
		})
		resp.Err = fmt.Errorf("%w: %s %s", ErrMethodNotAllowed, req.Method, req.Path)
		resp.Header.Set("Allow", strings.Join(allowed, ", "))
		return resp
	}
	resp := problemResponse(&ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(http.StatusNotFound),
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("no route for %s %s", req.Method, req.Path),
	})
	resp.Err = fmt.Errorf("%w: %s %s", ErrRouteNotFound, req.Method, req.Path)
	return resp
}

func (r *Router) dispatch(ctx context.Context, req *Request, m Match) *Response {
	ep := m.Route.ep
	if ep == nil {
		return problemResponse(Errorf(http.StatusInternalServerError, "route %s %s has no handler", m.Route.Method, m.Route.Pattern))
	}

	args, err := Bind(req, m, ep.params)
	if err != nil {
		var be *BindError
		if errors.As(err, &be) {
			r.metrics.bindFailed(m.Route.Pattern.String(), be)
		}
		r.logger.LogAttrs(ctx, slog.LevelDebug, "request rejected",
			slog.String("method", req.Method),
			slog.String("route", m.Route.Pattern.String()),
			slog.String("err", err.Error()),
		)
		return problemResponse(err)
	}

	val, err := ep.handler(ctx, args)
	if err != nil {
		if ErrorStatus(err) >= http.StatusInternalServerError {
			r.logger.LogAttrs(ctx, slog.LevelError, "handler failed",
				slog.String("method", req.Method),
				slog.String("route", m.Route.Pattern.String()),
				slog.String("err", err.Error()),
			)
		}
		return problemResponse(err)
	}

	if val == nil {
		return &Response{Status: http.StatusNoContent, Header: make(http.Header)}
	}
	if sc, ok := val.(StatusCoder); ok {
		return &Response{Status: sc.StatusCode(), Header: make(http.Header), Value: val}
	}
	return &Response{Status: ep.status, Header: make(http.Header), Value: val}
}

// ServeHTTP implements http.Handler. It is the bundled host transport:
// it reads the body, hands a Request to Handle and encodes the Response.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(http.HandlerFunc(r.serve))
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

func (r *Router) serve(w http.ResponseWriter, req *http.Request) {
	body, err := readBody(w, req, r.bodyLimit)
	if err != nil {
		writeResponse(w, req, problemResponse(err), r.codecs)
		return
	}

	resp := r.Handle(req.Context(), &Request{
		Method:   req.Method,
		Path:     req.URL.Path,
		Query:    req.URL.Query(),
		RawQuery: req.URL.RawQuery,
		Header:   req.Header,
		Body:     body,
	})
	writeResponse(w, req, resp, r.codecs)
}

func readBody(w http.ResponseWriter, req *http.Request, limit int64) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: %w", ErrBodyTooLarge, &ProblemDetail{
				Type:   "about:blank",
				Title:  http.StatusText(http.StatusRequestEntityTooLarge),
				Status: http.StatusRequestEntityTooLarge,
				Detail: fmt.Sprintf("%v: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit),
			})
		}
		return nil, Errorf(http.StatusBadRequest, "read body: %v", err)
	}
	return body, nil
}
