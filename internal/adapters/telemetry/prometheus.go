package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"orderdesk/backend/internal/ports"
)

const metricsNamespace = "orderdesk"

// PrometheusTelemetry counts service events and times HTTP requests. It is a
// prometheus.Collector and must be registered before it is scraped.
type PrometheusTelemetry struct {
	events          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ ports.Telemetry      = (*PrometheusTelemetry)(nil)
	_ prometheus.Collector = (*PrometheusTelemetry)(nil)
)

func NewPrometheusTelemetry() *PrometheusTelemetry {
	return &PrometheusTelemetry{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "service_events_total",
				Help:      "The number of successful data service mutations by event name.",
			}, []string{"event"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "The time taken to answer an HTTP request.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			}, []string{"method", "route", "status"},
		),
	}
}

// Record ignores attributes; entity ids would explode label cardinality.
func (p *PrometheusTelemetry) Record(name string, _ map[string]string) {
	p.events.WithLabelValues(name).Inc()
}

func (p *PrometheusTelemetry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Describe is part of the prometheus.Collector interface.
func (p *PrometheusTelemetry) Describe(ch chan<- *prometheus.Desc) {
	p.events.Describe(ch)
	p.requestDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (p *PrometheusTelemetry) Collect(ch chan<- prometheus.Metric) {
	p.events.Collect(ch)
	p.requestDuration.Collect(ch)
}
