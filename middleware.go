package binder

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Middleware wraps the router's net/http side. It sees raw requests before
// matching; binding and dispatch happen inside.
type Middleware func(next http.Handler) http.Handler

// Recovery returns middleware that turns a panic into a 500 problem
// document and logs it, with the stack, on logger (slog.Default if nil).
// The panic value never reaches the client.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.LogAttrs(r.Context(), slog.LevelError, "handler panicked",
					slog.Any("panic", v),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", RequestIDFrom(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				writeProblem(w, r, Error(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
