package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()
		require.NoError(t, m.Register(reg))

		m.ObserveOperation("add", OutcomeSuccess, 0.002)
		m.SetActiveSessions(1)
		m.IncSaves(OutcomeSuccess)
		m.IncCacheRequests(CacheHit)
		m.AddSessionsEvicted(1)

		families, err := reg.Gather()
		require.NoError(t, err)

		names := map[string]bool{}
		for _, family := range families {
			names[family.GetName()] = true
		}
		for _, name := range []string{
			MetricOperationsTotal, MetricOperationDuration, MetricActiveSessions,
			MetricLayoutSavesTotal, MetricCacheRequestsTotal, MetricSessionsEvictedTotal,
		} {
			assert.True(t, names[name], "metric %s not gathered", name)
		}
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		require.NoError(t, NewMetrics().Register(reg))
		assert.Error(t, NewMetrics().Register(reg))
	})
}

func TestMetrics_Values(t *testing.T) {
	m := NewMetrics()

	m.ObserveOperation("add", OutcomeSuccess, 0.001)
	m.ObserveOperation("add", OutcomeSuccess, 0.001)
	m.ObserveOperation("add", OutcomeRejected, 0.001)
	m.SetActiveSessions(3)
	m.SetActiveSessions(2)
	m.IncCacheRequests(CacheMiss)
	m.AddSessionsEvicted(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("add", OutcomeRejected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues(CacheMiss)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.sessionsEvicted))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	m.IncSaves(OutcomeError)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `designer_layout_saves_total{outcome="error"} 1`)
}
