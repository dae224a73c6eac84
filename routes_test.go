package binder_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/binder"
)

func newDumpRouter() *binder.Router {
	r := binder.New(binder.WithTitle("Items"), binder.WithVersion("1.2.3"))
	binder.Get(r, "/items/", noop,
		binder.WithSummary("List items"),
		binder.WithParams(
			binder.QueryParam("q", binder.Optional(binder.SetOf(binder.String)), binder.Alias("item-query")),
			binder.QueryParam("limit", binder.Int, binder.Default(10), binder.Le(100), binder.Description("page size")),
		),
	)
	binder.Put(r, "/items/{item_id}", noop,
		binder.WithStatus(http.StatusAccepted),
		binder.WithParams(
			binder.PathParam("item_id", binder.Int, binder.Ge(1)),
			binder.BodyParam("item", binder.RecordOf(itemRecord)),
		),
	)
	return r
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	routes := newDumpRouter().Routes()
	require.Len(t, routes, 2)

	list := routes[0]
	assert.Equal(t, "GET", list.Method)
	assert.Equal(t, "/items/", list.Pattern)
	assert.Equal(t, "List items", list.Summary)
	assert.Equal(t, http.StatusOK, list.Status)
	require.Len(t, list.Params, 2)

	q := list.Params[0]
	assert.Equal(t, binder.SourceQuery, q.In)
	assert.Equal(t, "item-query", q.WireName)
	assert.Equal(t, "set[string]?", q.Type)
	assert.False(t, q.Required)

	limit := list.Params[1]
	assert.Equal(t, int64(10), limit.Default)
	assert.Equal(t, "page size", limit.Description)
	assert.Equal(t, []binder.ConstraintInfo{{Kind: binder.ConstraintLe, Bound: 100.0}}, limit.Constraints)

	update := routes[1]
	assert.Equal(t, http.StatusAccepted, update.Status)
	require.Len(t, update.Params, 2)
	assert.True(t, update.Params[0].Required)

	body := update.Params[1]
	assert.Equal(t, "Item", body.Type)
	require.Len(t, body.Fields, 5)
	assert.Equal(t, "price", body.Fields[2].Name)
	assert.Equal(t, "float", body.Fields[2].Type)
	assert.True(t, body.Fields[2].Required)
	assert.Equal(t, "tags", body.Fields[4].Name)
	assert.False(t, body.Fields[4].Required)
}

func TestRouterWriteRoutes(t *testing.T) {
	t.Parallel()

	r := newDumpRouter()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, r.WriteRoutes(&buf))

		var dump binder.RouteDump
		require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))
		assert.Equal(t, "Items", dump.Title)
		assert.Equal(t, "1.2.3", dump.Version)
		assert.Len(t, dump.Routes, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, r.WriteRoutesYAML(&buf))
		assert.Contains(t, buf.String(), "pattern: /items/{item_id}")

		var dump binder.RouteDump
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &dump))
		assert.Equal(t, "Items", dump.Title)
		assert.Len(t, dump.Routes, 2)
	})
}

func TestRouterServeRoutes(t *testing.T) {
	t.Parallel()

	r := newDumpRouter()
	r.ServeRoutes("/routes")

	w := serve(t, r, http.MethodGet, "/routes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dump binder.RouteDump
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dump))
	require.Len(t, dump.Routes, 3)
	assert.Equal(t, "/routes", dump.Routes[2].Pattern)

	w = serve(t, r, http.MethodGet, "/routes", "", "Accept", "application/yaml")
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "title: Items")
}
