// Package metrics holds the prometheus collectors exported by the fetch engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Request kinds used as the "kind" label
const (
	KindMetadata = "metadata"
	KindImage    = "image"
)

// Image lookup outcomes used as the "result" label
const (
	LookupHit     = "hit"
	LookupPending = "pending"
	LookupMiss    = "miss"
)

// Metrics provide fetch engine metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests     *prometheus.CounterVec
	ImageLookups *prometheus.CounterVec
	InFlight     prometheus.Gauge
	CachedImages prometheus.Gauge
}

// New creates a new metrics instance under the given namespace
func New(namespace string) *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Network requests issued, by kind and status code (0 = transport failure).",
		}, []string{"kind", "code"}),
		ImageLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "image_lookups_total",
			Help:      "Image fetch calls by outcome of the cache and in-flight checks.",
		}, []string{"result"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "images_in_flight",
			Help:      "Image fetches currently outstanding.",
		}),
		CachedImages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "images",
			Help:      "Decoded images held in memory.",
		}),
	}
}

// Collectors returns all prometheus metrics as collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	if m == nil {
		return nil
	}
	return []prometheus.Collector{
		m.Requests,
		m.ImageLookups,
		m.InFlight,
		m.CachedImages,
	}
}

// Register registers every collector with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

// OnRequest counts a completed request; code 0 means no response was received
func (m *Metrics) OnRequest(kind string, code int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(kind, fmt.Sprint(code)).Inc()
}

// OnLookup counts the outcome of an image fetch call
func (m *Metrics) OnLookup(result string) {
	if m == nil {
		return
	}
	m.ImageLookups.WithLabelValues(result).Inc()
}

// SetTables records the sizes of the in-flight table and the image cache
func (m *Metrics) SetTables(inFlight, cached int) {
	if m == nil {
		return
	}
	m.InFlight.Set(float64(inFlight))
	m.CachedImages.Set(float64(cached))
}
