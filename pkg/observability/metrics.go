package observability

import (
	"errors"

	"github.com/aretw0/deepset/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "deepset"

// Metrics counts walk steps and outcomes.
type Metrics struct {
	Steps *prometheus.CounterVec
	Walks *prometheus.CounterVec
	Depth prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "steps_total",
				Help:      "Walk steps by kind.",
			},
			[]string{"kind"},
		),
		Walks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "walks_total",
				Help:      "Finished walks by outcome.",
			},
			[]string{"outcome"},
		),
		Depth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "walk_depth",
				Help:      "Keys consumed when a walk finished.",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Steps, m.Walks, m.Depth} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Outcome labels a finished walk.
func Outcome(ok bool, err error) string {
	switch {
	case ok:
		return "ok"
	case err != nil:
		return "error"
	default:
		return "stopped"
	}
}

// Hooks returns walk hooks feeding the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStep: func(s domain.Step) {
			m.Steps.WithLabelValues(string(s.Kind)).Inc()
			if s.Final() {
				m.Depth.Observe(float64(s.Depth))
			}
		},
		OnFinish: func(ok bool, err error) {
			m.Walks.WithLabelValues(Outcome(ok, err)).Inc()
		},
	}
}
