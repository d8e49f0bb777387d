package cpanel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK             = "ok"
	resultRemoteError    = "remote_error"
	resultHTTPError      = "http_error"
	resultBadBody        = "bad_body"
	resultTransportError = "transport_error"
)

// Metrics holds the collectors describing outbound UAPI calls.
type Metrics struct {
	durations *prometheus.SummaryVec
	calls     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	const labelEndpoint = "endpoint"
	const labelResult = "result"

	m := &Metrics{
		durations: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "sitepatch_cpanel_request_duration_seconds",
				Help:       "duration of cPanel UAPI calls including reading the body",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{labelEndpoint},
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitepatch_cpanel_requests_total",
				Help: "number of cPanel UAPI calls by outcome",
			},
			[]string{labelEndpoint, labelResult},
		),
	}
	reg.MustRegister(m.durations, m.calls)
	return m
}

func (m *Metrics) observe(endpoint, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(endpoint).Observe(d.Seconds())
	m.calls.WithLabelValues(endpoint, result).Inc()
}
