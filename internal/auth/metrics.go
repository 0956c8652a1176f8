package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification results
const (
	ResultSuccess = "success"
	ResultMissing = "missing"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics holds Prometheus metrics for API key operations
type Metrics struct {
	verifications *prometheus.CounterVec
	created       prometheus.Counter
	touchFailures prometheus.Counter
}

// NewMetrics creates and registers the API key metrics
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	m := &Metrics{
		verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "userapi",
				Subsystem: "apikey",
				Name:      "verifications_total",
				Help:      "Total number of API key verification attempts",
			},
			[]string{"result"},
		),
		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "userapi",
			Subsystem: "apikey",
			Name:      "created_total",
			Help:      "Total number of API keys created",
		}),
		touchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "userapi",
			Subsystem: "apikey",
			Name:      "touch_failures_total",
			Help:      "Total number of failed last-used updates",
		}),
	}

	// Pre-initialize labels so every series is exported from startup
	for _, result := range []string{ResultSuccess, ResultMissing, ResultInvalid, ResultError} {
		m.verifications.WithLabelValues(result)
	}

	return m
}

// nopMetrics returns metrics registered nowhere
func nopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) recordVerification(result string) {
	m.verifications.WithLabelValues(result).Inc()
}
