package binder_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/binder"
	"github.com/bjaus/binder/apitest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := binder.New()
	r.Use(binder.Recovery(slog.New(slog.NewTextHandler(&buf, nil))))

	binder.Get(r, "/panic", func(context.Context, binder.Args) (any, error) {
		panic("boom")
	})

	w := serve(t, r, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	pd := decodeProblem(t, w)
	assert.Equal(t, http.StatusInternalServerError, pd.Status)
	assert.NotContains(t, w.Body.String(), "boom")

	assert.Contains(t, buf.String(), "handler panicked")
	assert.Contains(t, buf.String(), "panic=boom")
	assert.Contains(t, buf.String(), "path=/panic")
}

func TestAPITestClient(t *testing.T) {
	t.Parallel()

	c := apitest.NewClient(t, newItemsRouter(binder.WithLogger(discardLogger())))

	resp := apitest.Put(t, c, "/items/5", `{"name": "Foo", "price": 2}`)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Problem)

	var item map[string]any
	resp.Decode(t, &item)
	assert.Equal(t, "Foo", item["name"])

	resp = apitest.Put(t, c, "/items/5", `{"price": 2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	require.NotNil(t, resp.Problem)
	require.Len(t, resp.Problem.Errors, 1)
	assert.Equal(t, "name", resp.Problem.Errors[0].Loc)

	resp = apitest.Delete(t, c, "/items/5")
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Empty(t, resp.Body)

	resp = apitest.Post(t, c, "/items/", `{}`)
	assert.Equal(t, http.StatusCreated, resp.Status)
}

func TestMiddleware_ordering(t *testing.T) {
	t.Parallel()

	r := binder.New()

	var order []string
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "first")
			w.Header().Set("X-First", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			order = append(order, "second")
			w.Header().Set("X-Second", "2")
			next.ServeHTTP(w, req)
		})
	})

	binder.Get(r, "/test", func(context.Context, binder.Args) (any, error) {
		order = append(order, "handler")
		return map[string]string{"value": "ok"}, nil
	})

	w := serve(t, r, http.MethodGet, "/test", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-First"))
	assert.Equal(t, "2", w.Header().Get("X-Second"))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
	assert.JSONEq(t, `{"value":"ok"}`, w.Body.String())
}

func TestLogger(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		target     string
		wantSubstr []string
	}{
		"request is logged": {
			target: "/items/1",
			wantSubstr: []string{
				"level=INFO",
				"msg=request",
				"method=GET",
				"path=/items/1",
				"status=200",
				"request_id=",
			},
		},
		"client errors log at warn": {
			target: "/items/foo",
			wantSubstr: []string{
				"level=WARN",
				"status=422",
			},
		},
		"unknown routes log at warn": {
			target: "/nowhere",
			wantSubstr: []string{
				"level=WARN",
				"status=404",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			r := newItemsRouter(binder.WithLogger(discardLogger()))
			r.Use(binder.RequestID(), binder.Logger(slog.New(slog.NewTextHandler(&buf, nil))))

			serve(t, r, http.MethodGet, tc.target, "")

			logOutput := buf.String()
			for _, s := range tc.wantSubstr {
				assert.Contains(t, logOutput, s, "log output should contain %q", s)
			}
		})
	}
}

func TestRouterLogsHandlerFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newItemsRouter(binder.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	serve(t, r, http.MethodGet, "/broken", "")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "database password leaked here")

	buf.Reset()
	serve(t, r, http.MethodGet, "/items/foo", "")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "request rejected")
}
