// Package metrics holds the Prometheus collectors of the service and the
// HTTP middleware that feeds them.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "patentcompass"

// group registers a fixed set of collectors with the default registerer at
// most once, so both binaries and tests may call the Register funcs freely.
type group struct {
	once       sync.Once
	collectors func() []prometheus.Collector
}

func (g *group) register() {
	g.once.Do(func() {
		prometheus.MustRegister(g.collectors()...)
	})
}
