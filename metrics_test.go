package binder_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/binder"
)

// counterValue returns the value of the counter with exactly these labels.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			if assert.ObjectsAreEqual(labels, got) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r := newItemsRouter(
		binder.WithMetrics(binder.NewMetrics(reg, "binder")),
		binder.WithLogger(discardLogger()),
	)

	serve(t, r, http.MethodGet, "/items/1", "")
	serve(t, r, http.MethodGet, "/items/2", "")
	serve(t, r, http.MethodGet, "/nowhere", "")
	serve(t, r, http.MethodGet, "/items/0?q="+strings.Repeat("x", 51), "")

	assert.InDelta(t, 2.0, counterValue(t, reg, "binder_requests_total", map[string]string{
		"method": "GET", "route": "/items/{item_id}", "status": "200",
	}), 0)
	assert.InDelta(t, 1.0, counterValue(t, reg, "binder_requests_total", map[string]string{
		"method": "GET", "route": "unmatched", "status": "404",
	}), 0)
	assert.InDelta(t, 1.0, counterValue(t, reg, "binder_requests_total", map[string]string{
		"method": "GET", "route": "/items/{item_id}", "status": "422",
	}), 0)
	assert.InDelta(t, 1.0, counterValue(t, reg, "binder_bind_errors_total", map[string]string{
		"route": "/items/{item_id}", "source": "path", "reason": "constraint",
	}), 0)
	assert.InDelta(t, 1.0, counterValue(t, reg, "binder_bind_errors_total", map[string]string{
		"route": "/items/{item_id}", "source": "query", "reason": "constraint",
	}), 0)
}
