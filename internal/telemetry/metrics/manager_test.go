package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/fitcoach/internal/telemetry/metrics/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterSetCommits.Inc()
	m.CounterSetCommits.Inc()
	m.CounterDuplicateSets.Inc()
	m.CounterSessionUpdates.With(prometheus.Labels{"source": "auto", "completed": "true"}).Inc()
	m.GaugeLiveEngines.Set(3)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CounterSetCommits))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterDuplicateSets))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.GaugeLiveEngines))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.CounterSessionUpdates.With(prometheus.Labels{"source": "auto", "completed": "true"}),
	))

	expected := `
# HELP backend_test_server_set_commits The total number of committed sets
# TYPE backend_test_server_set_commits counter
backend_test_server_set_commits 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "backend_test_server_set_commits"))
}

func TestNewManager_SeparateRegistries(t *testing.T) {
	// the same metric names must be registrable on separate registries
	require.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus_WithMetricsMiddleware(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extra_collector_total",
		Help: "extra",
	})
	reg := SetupPrometheus(extra)
	extra.Inc()

	handler := middleware.New(reg, nil).WrapHandler(
		"/metrics",
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "extra_collector_total 1")
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
