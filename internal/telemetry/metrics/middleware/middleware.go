package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1}

// Middleware instruments handlers of the metrics listener itself.
type Middleware struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New(registry prometheus.Registerer, buckets []float64) *Middleware {
	if buckets == nil {
		buckets = defaultBuckets
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metrics_handler_requests_total",
		Help: "Total number of scrapes by handler and HTTP status code",
	}, []string{"handler", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metrics_handler_request_duration_seconds",
		Help:    "Duration of scrapes in seconds",
		Buckets: buckets,
	}, []string{"handler", "code"})

	registry.MustRegister(requests, duration)

	return &Middleware{
		requests: requests,
		duration: duration,
	}
}

func (m *Middleware) WrapHandler(handlerName string, handler http.Handler) http.Handler {
	labels := prometheus.Labels{"handler": handlerName}
	return promhttp.InstrumentHandlerCounter(
		m.requests.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(
			m.duration.MustCurryWith(labels),
			handler,
		),
	)
}
