package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meridian_lifecycle_state",
		Help: "Current lifecycle state (0=starting, 1=running, 2=shutting-down, 3=stopped)",
	})

	metricSignalsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meridian_lifecycle_signals_received_total",
		Help: "Total termination signals received, by signal name",
	}, []string{"signal"})

	metricComponentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_lifecycle_component_failures_total",
		Help: "Total fatal component errors observed by the controller",
	})

	metricForcedTerminations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_lifecycle_forced_terminations_total",
		Help: "Total shutdowns that exceeded the grace period and were forced",
	})
)
