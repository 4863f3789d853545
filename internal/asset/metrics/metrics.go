package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts asset lifecycle events.
type Metrics struct {
	AssetsCreated  prometheus.Counter
	AssetsServiced prometheus.Counter
	AssetsDeleted  prometheus.Counter
}

// New registers asset metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers asset metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AssetsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "assetguard_assets_created_total",
			Help: "Total number of assets created",
		}),
		AssetsServiced: f.NewCounter(prometheus.CounterOpts{
			Name: "assetguard_assets_serviced_total",
			Help: "Total number of assets marked as serviced",
		}),
		AssetsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "assetguard_assets_deleted_total",
			Help: "Total number of assets deleted",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.AssetsCreated.Inc()
	}
}

func (m *Metrics) IncrementServiced() {
	if m != nil {
		m.AssetsServiced.Inc()
	}
}

func (m *Metrics) IncrementDeleted() {
	if m != nil {
		m.AssetsDeleted.Inc()
	}
}
