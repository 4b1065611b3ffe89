// Package metrics exports container activity as Prometheus collectors.
//
//	m := metrics.New("app")
//	m.MustRegister(prometheus.DefaultRegisterer)
//	c := microioc.New(m.Options()...)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/limitzero/microioc"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

type Metrics struct {
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	registrations      prometheus.Counter
	disposals          *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Number of resolutions by binding and outcome.",
			},
			[]string{"binding", "outcome"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Time taken to resolve a binding, dependencies included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"binding"},
		),
		registrations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Number of bindings added to the container.",
			},
		),
		disposals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "disposals_total",
				Help:      "Number of owned instances released, by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.resolutions,
		m.resolutionDuration,
		m.registrations,
		m.disposals,
	}
}

// Register adds every collector to reg and stops at the first failure.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, collector := range m.Collectors() {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Collectors()...)
}

// Options returns the container observers that feed the collectors.
func (m *Metrics) Options() []microioc.Option {
	return []microioc.Option{
		microioc.WithResolveObserver(m.observeResolve),
		microioc.WithRegisterObserver(m.observeRegister),
		microioc.WithDisposeObserver(m.observeDispose),
	}
}

func (m *Metrics) observeResolve(key string, duration time.Duration, err error) {
	m.resolutions.WithLabelValues(key, outcome(err)).Inc()
	m.resolutionDuration.WithLabelValues(key).Observe(duration.Seconds())
}

func (m *Metrics) observeRegister(string) {
	m.registrations.Inc()
}

func (m *Metrics) observeDispose(_ string, err error) {
	m.disposals.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeSuccess
}
