package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterSetCommits          prometheus.Counter
	CounterSetCommitFailures   prometheus.Counter
	CounterSetDeletes          prometheus.Counter
	CounterStaleRefetches      prometheus.Counter
	CounterDuplicateSets       prometheus.Counter
	CounterDetailFallbacks     prometheus.Counter
	CounterSessionUpdates      *prometheus.CounterVec

	// gauges
	GaugeRequests    prometheus.Gauge
	GaugeLifeSignal  prometheus.Gauge
	GaugeLiveEngines prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistDayLoadDuration      prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterSetCommits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "set_commits",
		Help:      "The total number of committed sets",
	})
	counterSetCommitFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "set_commit_failures",
		Help:      "The total number of set commits rejected by the backend",
	})
	counterSetDeletes := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "set_deletes",
		Help:      "The total number of deleted committed sets",
	})
	counterStaleRefetches := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stale_refetches",
		Help:      "The total number of set record refetch responses discarded as outdated",
	})
	counterDuplicateSets := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "duplicate_sets",
		Help:      "The total number of observed duplicate set numbers within a day",
	})
	counterDetailFallbacks := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exercise_detail_fallbacks",
		Help:      "The total number of exercise details replaced by a fallback",
	})
	counterSessionUpdates := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_updates",
		Help:      "The total number of training session completion updates",
	}, []string{"source", "completed"})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeLiveEngines := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_day_engines",
		Help:      "Current number of training day engines held in memory",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histDayLoadDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "day_load_duration_seconds",
		Help:      "Duration of a full training day load in seconds",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterSetCommits:          counterSetCommits,
		CounterSetCommitFailures:   counterSetCommitFailures,
		CounterSetDeletes:          counterSetDeletes,
		CounterStaleRefetches:      counterStaleRefetches,
		CounterDuplicateSets:       counterDuplicateSets,
		CounterDetailFallbacks:     counterDetailFallbacks,
		CounterSessionUpdates:      counterSessionUpdates,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeLiveEngines:           gaugeLiveEngines,
		HistogramRequestDuration:   histogramRequestDuration,
		HistDayLoadDuration:        histDayLoadDuration,
	}
}
