package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is everything the service reports to Prometheus.
type Recorder interface {
	IncRequestsTotal(route string, status int)
	ObserveRequestDuration(route string, d time.Duration)
	IncPromptsSaved()
	IncChatMessagesSent()
	IncNotificationsAdded()
	ObserveStatsRecompute(d time.Duration)
	IncSyntheticFallback()
	IncCacheHits()
	IncCacheMisses()
	StreamOpened(kind string)
	StreamClosed(kind string)
	// Handler serves the /metrics exposition.
	Handler() http.Handler
}

type Provider struct {
	registry          *prometheus.Registry
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	promptsSaved      prometheus.Counter
	chatSent          prometheus.Counter
	notifications     prometheus.Counter
	statsRecompute    prometheus.Histogram
	syntheticFallback prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	openStreams       *prometheus.GaugeVec
}

// New returns a Prometheus-backed Recorder on its own registry, or a no-op
// Recorder when disabled.
func New(enabled bool) Recorder {
	if !enabled {
		return noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Provider{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		promptsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_prompts_saved_total",
			Help: "Prompts persisted",
		}),
		chatSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_chat_messages_sent_total",
			Help: "Team chat messages written",
		}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_notifications_added_total",
			Help: "Notifications created",
		}),
		statsRecompute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_stats_recompute_duration_seconds",
			Help:    "Duration of a full admin statistics recompute",
			Buckets: prometheus.DefBuckets,
		}),
		syntheticFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_stats_synthetic_fallback_total",
			Help: "Admin snapshots served from the synthetic dataset",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_cache_hits_total",
			Help: "Total number of cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_cache_misses_total",
			Help: "Total number of cache misses",
		}),
		openStreams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_open_streams",
			Help: "Open WebSocket streams by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.requestsTotal, m.requestDuration, m.promptsSaved, m.chatSent, m.notifications,
		m.statsRecompute, m.syntheticFallback, m.cacheHits, m.cacheMisses, m.openStreams,
	)
	return m
}

func (m *Provider) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, httpStatusBucket(status)).Inc()
}

func (m *Provider) ObserveRequestDuration(route string, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Provider) IncPromptsSaved()       { m.promptsSaved.Inc() }
func (m *Provider) IncChatMessagesSent()   { m.chatSent.Inc() }
func (m *Provider) IncNotificationsAdded() { m.notifications.Inc() }
func (m *Provider) IncSyntheticFallback()  { m.syntheticFallback.Inc() }
func (m *Provider) IncCacheHits()          { m.cacheHits.Inc() }
func (m *Provider) IncCacheMisses()        { m.cacheMisses.Inc() }

func (m *Provider) ObserveStatsRecompute(d time.Duration) {
	m.statsRecompute.Observe(d.Seconds())
}

func (m *Provider) StreamOpened(kind string) { m.openStreams.WithLabelValues(kind).Inc() }
func (m *Provider) StreamClosed(kind string) { m.openStreams.WithLabelValues(kind).Dec() }

func (m *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(string, int)                 {}
func (noopMetrics) ObserveRequestDuration(string, time.Duration) {}
func (noopMetrics) IncPromptsSaved()                             {}
func (noopMetrics) IncChatMessagesSent()                         {}
func (noopMetrics) IncNotificationsAdded()                       {}
func (noopMetrics) ObserveStatsRecompute(time.Duration)          {}
func (noopMetrics) IncSyntheticFallback()                        {}
func (noopMetrics) IncCacheHits()                                {}
func (noopMetrics) IncCacheMisses()                              {}
func (noopMetrics) StreamOpened(string)                          {}
func (noopMetrics) StreamClosed(string)                          {}
func (noopMetrics) Handler() http.Handler                        { return http.NotFoundHandler() }

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return noopMetrics{} }
