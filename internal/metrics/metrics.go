// Package metrics exposes Prometheus counters for the webhook ingress.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DeliveriesTotal          prometheus.Counter
	EntriesTotal             *prometheus.CounterVec
	SignatureRejectionsTotal prometheus.Counter
	MalformedEnvelopesTotal  prometheus.Counter
}

// New registers the gateway metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DeliveriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pandagate_deliveries_total",
			Help: "Total number of webhook deliveries accepted for routing",
		}),
		EntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pandagate_entries_total",
			Help: "Total number of envelope entries routed, by outcome",
		}, []string{"outcome"}),
		SignatureRejectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pandagate_signature_rejections_total",
			Help: "Total number of deliveries rejected by HMAC signature verification",
		}),
		MalformedEnvelopesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pandagate_malformed_envelopes_total",
			Help: "Total number of deliveries rejected as malformed envelopes",
		}),
	}
}

func (m *Metrics) ObserveEntry(outcome string) {
	m.EntriesTotal.WithLabelValues(outcome).Inc()
}
