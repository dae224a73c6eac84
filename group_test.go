package binder_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/binder"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	r := binder.New()
	v1 := r.Group("/v1")
	admin := v1.Group("/admin",
		binder.WithGroupOptions(
			binder.WithParams(binder.QueryParam("token", binder.String, binder.MinLength(3))),
			binder.WithStatus(http.StatusAccepted),
		),
	)

	binder.Get(v1, "/items/{item_id}", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"item_id": args.Int("item_id")}, nil
	}, binder.WithParams(binder.PathParam("item_id", binder.Int)))

	binder.Post(admin, "/reindex", func(_ context.Context, args binder.Args) (any, error) {
		return map[string]any{"token": args.String("token"), "full": args.Bool("full")}, nil
	}, binder.WithParams(binder.QueryParam("full", binder.Bool, binder.Default(false))))

	binder.Delete(admin, "/cache", func(context.Context, binder.Args) (any, error) {
		return map[string]any{"cleared": true}, nil
	}, binder.WithStatus(http.StatusOK))

	tests := map[string]struct {
		method     string
		target     string
		wantStatus int
		wantBody   string
	}{
		"prefixed route": {
			method:     http.MethodGet,
			target:     "/v1/items/3",
			wantStatus: http.StatusOK,
			wantBody:   `{"item_id":3}` + "\n",
		},
		"unprefixed path misses": {
			method:     http.MethodGet,
			target:     "/items/3",
			wantStatus: http.StatusNotFound,
		},
		"group params and status apply": {
			method:     http.MethodPost,
			target:     "/v1/admin/reindex?token=abc&full=on",
			wantStatus: http.StatusAccepted,
			wantBody:   `{"full":true,"token":"abc"}` + "\n",
		},
		"group params are validated": {
			method:     http.MethodPost,
			target:     "/v1/admin/reindex?token=ab",
			wantStatus: http.StatusUnprocessableEntity,
		},
		"route status overrides group status": {
			method:     http.MethodDelete,
			target:     "/v1/admin/cache?token=abc",
			wantStatus: http.StatusOK,
			wantBody:   `{"cleared":true}` + "\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, r, tc.method, tc.target, "")
			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}
