package binder

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDConfig configures the RequestID middleware. Zero fields take
// the defaults: header X-Request-ID, random UUIDv4 ids.
type RequestIDConfig struct {
	Header    string
	Generator func() string
}

// RequestID returns middleware that tags every request with an id. An id
// sent by the client in the header is kept; otherwise one is generated.
// The id is echoed in the response header and handlers read it with
// RequestIDFrom on the ctx they receive.
func RequestID(cfg ...RequestIDConfig) Middleware {
	header, generate := "X-Request-ID", uuid.NewString
	for _, c := range cfg {
		if c.Header != "" {
			header = c.Header
		}
		if c.Generator != nil {
			generate = c.Generator
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				id = generate()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}

// WithRequestID returns ctx carrying id. Host transports other than
// ServeHTTP use it to pass their own ids to handlers through Handle.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
