package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.MovementsStored.Add(3)
	m.Requests.WithLabelValues("/inventario", "202").Inc()

	var req fasthttp.Request
	req.SetRequestURI("/metrics")
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	m.Handler()(&ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "inventory_movements_stored_total 3")
	assert.Contains(t, body, `http_requests_total{code="202",route="/inventario"} 1`)
	assert.NotContains(t, body, "liters_widget_renders_total")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.MovementsStored.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.MovementsStored))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MovementsStored))
}

func TestWidgetWritesTextfile(t *testing.T) {
	m := NewWidget()
	m.Renders.WithLabelValues(OutcomeRendered).Inc()
	m.Renders.WithLabelValues(OutcomeFailed).Add(2)

	path := filepath.Join(t.TempDir(), "liters_widget.prom")
	require.NoError(t, m.WriteToTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `liters_widget_renders_total{outcome="rendered"} 1`)
	assert.Contains(t, string(b), `liters_widget_renders_total{outcome="failed"} 2`)
}
