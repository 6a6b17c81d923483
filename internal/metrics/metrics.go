// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Submissions     *prometheus.CounterVec
	ComposeLaunches *prometheus.CounterVec
	FetchTotal      *prometheus.CounterVec
	FetchFailures   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "watchdesk",
				Name:      "submissions_total",
				Help:      "Report submissions by validation outcome",
			},
			[]string{"outcome"},
		),
		ComposeLaunches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "watchdesk",
				Name:      "compose_launches_total",
				Help:      "Accepted sends by mail provider",
			},
			[]string{"provider"},
		),
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "watchdesk",
				Name:      "source_fetches_total",
				Help:      "Source document fetch attempts",
			},
			[]string{"source"},
		),
		FetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "watchdesk",
				Name:      "source_fetch_failures_total",
				Help:      "Source document fetch failures",
			},
			[]string{"source"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "watchdesk",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	reg.MustRegister(m.Submissions, m.ComposeLaunches, m.FetchTotal, m.FetchFailures, m.RequestDuration)
	return m
}
