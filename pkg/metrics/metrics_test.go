package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	at := time.Unix(1700000000, 0)
	m.ObserveCall("test_1", 1500*time.Millisecond, at)
	m.ObserveCall("test_1", 500*time.Millisecond, at.Add(500*time.Millisecond))
	m.ObserveCall("test_2", time.Second, at)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("test_1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("test_2")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.callsTotal.WithLabelValues("test_3")))
	assert.InDelta(t, 1700000000.5, testutil.ToFloat64(m.lastCallStamp.WithLabelValues("test_1")), 1e-3)

	assert.Equal(t, 2, testutil.CollectAndCount(m.callInterval, "probe_call_interval_seconds"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCall("test_1", time.Second, time.Now())
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveCall("test_3", time.Second, time.Now())

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `probe_calls_total{route="test_3"} 1`)
}
