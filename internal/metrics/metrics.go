// Package metrics exposes service counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its own registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	campaignsCreated     *prometheus.CounterVec
	sendFailures         *prometheus.CounterVec
	suggestionsGenerated prometheus.Counter
	dashboardCache       *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		campaignsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinerreach",
			Name:      "campaigns_created_total",
			Help:      "Campaigns persisted by the composer.",
		}, []string{"channel"}),
		sendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinerreach",
			Name:      "campaign_send_failures_total",
			Help:      "Rejected campaign sends by reason.",
		}, []string{"reason"}),
		suggestionsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dinerreach",
			Name:      "suggestions_generated_total",
			Help:      "Offers produced by the suggestion generator.",
		}),
		dashboardCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinerreach",
			Name:      "dashboard_cache_total",
			Help:      "Dashboard campaign list lookups by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dinerreach",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.campaignsCreated,
		m.sendFailures,
		m.suggestionsGenerated,
		m.dashboardCache,
		m.httpRequests,
	)
	return m
}

func (m *Metrics) CampaignCreated(channel string) {
	if m == nil {
		return
	}
	m.campaignsCreated.WithLabelValues(channel).Inc()
}

// SendFailed records a rejected send; reason is "validation", "busy" or "store".
func (m *Metrics) SendFailed(reason string) {
	if m == nil {
		return
	}
	m.sendFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) SuggestionGenerated() {
	if m == nil {
		return
	}
	m.suggestionsGenerated.Inc()
}

func (m *Metrics) CacheResult(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.dashboardCache.WithLabelValues(result).Inc()
}

// InstrumentHandler counts every request passing through next.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerCounter(m.httpRequests, next)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
