package tasks

import "github.com/prometheus/client_golang/prometheus"

// Counter is implemented by stores that can report their size.
type Counter interface {
	Count() int
}

// RegisterStoreMetrics exposes the current number of stored tasks as the
// tasks_stored gauge.
func RegisterStoreMetrics(reg prometheus.Registerer, c Counter) error {
	g := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "tasks_stored",
			Help: "Number of tasks currently held in the store",
		},
		func() float64 { return float64(c.Count()) },
	)
	return reg.Register(g)
}
