package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service metrics on a private registry
type Collector struct {
	reg *prometheus.Registry

	Estimates      *prometheus.CounterVec // source label: manual|gpx
	EstimateHours  prometheus.Histogram
	TraceAnalyses  *prometheus.CounterVec // result label: ok|no_elevation|invalid
	TracePoints    prometheus.Histogram
	RejectedInputs prometheus.Counter

	EventsPublished   prometheus.Counter
	EventPublishErrs  prometheus.Counter
	EventBusConnected prometheus.Gauge

	RequestDuration *prometheus.HistogramVec // route, method, status
}

// NewCollector creates and registers every metric
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hiking_estimates_total",
			Help: "Duration estimates computed, by input source.",
		}, []string{"source"}),
		EstimateHours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hiking_estimate_hours",
			Help:    "Estimated hike durations in hours.",
			Buckets: []float64{0.5, 1, 2, 3, 4, 6, 8, 10, 12, 16, 24},
		}),
		TraceAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hiking_trace_analyses_total",
			Help: "GPX traces analyzed, by result.",
		}, []string{"result"}),
		TracePoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hiking_trace_points",
			Help:    "Number of points in analyzed traces.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		RejectedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiking_rejected_inputs_total",
			Help: "Estimate requests rejected by parameter validation.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiking_events_published_total",
			Help: "Estimate events published to NATS.",
		}),
		EventPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hiking_event_publish_errors_total",
			Help: "Estimate event publish errors.",
		}),
		EventBusConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hiking_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hiking_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"route", "method", "status"}),
	}

	reg.MustRegister(
		c.Estimates, c.EstimateHours,
		c.TraceAnalyses, c.TracePoints, c.RejectedInputs,
		c.EventsPublished, c.EventPublishErrs, c.EventBusConnected,
		c.RequestDuration,
	)

	return c
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// The methods below let the collector satisfy the small recorder
// interfaces of the service and publisher packages.

func (c *Collector) EstimateObserved(source string, hours float64) {
	c.Estimates.WithLabelValues(source).Inc()
	c.EstimateHours.Observe(hours)
}

func (c *Collector) TraceAnalyzed(result string, points int) {
	c.TraceAnalyses.WithLabelValues(result).Inc()
	if result != "invalid" {
		c.TracePoints.Observe(float64(points))
	}
}

func (c *Collector) InputRejected() { c.RejectedInputs.Inc() }

func (c *Collector) EventPublished() { c.EventsPublished.Inc() }

func (c *Collector) EventPublishFailed() { c.EventPublishErrs.Inc() }

func (c *Collector) EventBusSetConnected(connected bool) {
	if connected {
		c.EventBusConnected.Set(1)
	} else {
		c.EventBusConnected.Set(0)
	}
}

func (c *Collector) RequestObserved(route, method, status string, d time.Duration) {
	c.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}
