package binder_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/binder"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg       []binder.RequestIDConfig
		reqHeader []string
		header    string
		checkID   func(t *testing.T, id string)
	}{
		"generates a uuid when none provided": {
			header: "X-Request-ID",
			checkID: func(t *testing.T, id string) {
				t.Helper()
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
			},
		},
		"preserves existing X-Request-ID": {
			reqHeader: []string{"X-Request-ID", "my-custom-id-123"},
			header:    "X-Request-ID",
			checkID: func(t *testing.T, id string) {
				t.Helper()
				assert.Equal(t, "my-custom-id-123", id)
			},
		},
		"custom header name": {
			cfg:    []binder.RequestIDConfig{{Header: "X-Trace-ID"}},
			header: "X-Trace-ID",
			checkID: func(t *testing.T, id string) {
				t.Helper()
				assert.Len(t, id, 36)
			},
		},
		"custom generator": {
			cfg:    []binder.RequestIDConfig{{Generator: func() string { return "fixed" }}},
			header: "X-Request-ID",
			checkID: func(t *testing.T, id string) {
				t.Helper()
				assert.Equal(t, "fixed", id)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var seen string
			r := binder.New()
			r.Use(binder.RequestID(tc.cfg...))
			binder.Get(r, "/id", func(ctx context.Context, _ binder.Args) (any, error) {
				seen = binder.RequestIDFrom(ctx)
				return nil, nil
			})

			w := serve(t, r, http.MethodGet, "/id", "", tc.reqHeader...)
			require.Equal(t, http.StatusNoContent, w.Code)

			id := w.Header().Get(tc.header)
			tc.checkID(t, id)
			assert.Equal(t, id, seen, "handler sees the same id")
		})
	}
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, binder.RequestIDFrom(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	r := binder.New()
	binder.Get(r, "/id", func(ctx context.Context, _ binder.Args) (any, error) {
		seen = binder.RequestIDFrom(ctx)
		return nil, nil
	})

	ctx := binder.WithRequestID(context.Background(), "from-queue-7")
	resp := r.Handle(ctx, &binder.Request{Method: http.MethodGet, Path: "/id"})
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, "from-queue-7", seen)
}
