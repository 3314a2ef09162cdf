package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublisherMetrics records outcomes of outbox publish cycles.
type PublisherMetrics struct {
	duration  *prometheus.HistogramVec
	published *prometheus.CounterVec
	failure   *prometheus.CounterVec
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_cycle_seconds",
		Help:    "Duration of outbox publish cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events successfully published.",
	}, []string{"topic"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed",
		Help: "Outbox events that failed to publish.",
	}, []string{"topic"})
	reg.MustRegister(duration, published, failure)
	return &PublisherMetrics{
		duration:  duration,
		published: published,
		failure:   failure,
	}
}

// ObserveCycle records the duration of one publish cycle for the topic.
func (p *PublisherMetrics) ObserveCycle(topic string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncPublished adds to the published counter for the topic.
func (p *PublisherMetrics) IncPublished(topic string, count int) {
	if p == nil || p.published == nil || count <= 0 {
		return
	}
	p.published.WithLabelValues(normalizeLabel(topic)).Add(float64(count))
}

// IncFailed adds to the failure counter for the topic.
func (p *PublisherMetrics) IncFailed(topic string, count int) {
	if p == nil || p.failure == nil || count <= 0 {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(topic)).Add(float64(count))
}

func normalizeLabel(topic string) string {
	if topic == "" {
		return "unknown"
	}
	return topic
}
