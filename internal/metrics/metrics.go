// Package metrics exposes the relay's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route labels.
const (
	RouteFeed   = "feed"
	RouteScrape = "scrape"
)

// Collaborator labels.
const (
	CollaboratorFeed    = "feed"
	CollaboratorScraper = "scraper"
	CollaboratorLLM     = "llm"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeBadRequest  = "bad_request"
	OutcomeError       = "error"
	OutcomeStreamError = "stream_error"
	OutcomeClientGone  = "client_gone"
)

// Metrics holds the relay collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	StreamFragments  prometheus.Counter
	UpstreamDuration *prometheus.HistogramVec
}

// New registers the relay collectors, plus Go runtime and process
// collectors, on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Relay requests by route and outcome",
		}, []string{"route", "outcome"}),
		StreamFragments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_fragments_total",
			Help:      "Completion fragments written to clients",
		}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Time spent in collaborator calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"collaborator", "outcome"}),
	}
}

// ObserveRequest counts one finished request.
func (m *Metrics) ObserveRequest(route, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, outcome).Inc()
}

// AddFragment counts one streamed fragment.
func (m *Metrics) AddFragment() {
	if m == nil {
		return
	}
	m.StreamFragments.Inc()
}

// ObserveUpstream records how long a collaborator call took.
func (m *Metrics) ObserveUpstream(collaborator, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(collaborator, outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome maps an error to OutcomeOK or OutcomeError.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
