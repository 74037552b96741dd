package utils

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	slotsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spotly",
			Name:      "slots_created_total",
			Help:      "Count of schedule slots created.",
		},
	)

	slotConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spotly",
			Name:      "slot_conflicts_total",
			Help:      "Count of slot writes rejected for overlapping an existing slot.",
		},
	)

	slotTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spotly",
			Name:      "slot_transitions_total",
			Help:      "Count of slot availability transitions by direction.",
		},
		[]string{"transition"},
	)
)

// RegisterMetrics registers scheduling metrics (idempotent).
func RegisterMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(slotsCreated, slotConflicts, slotTransitions)
	})
}

func IncSlotCreated() {
	slotsCreated.Inc()
}

func IncSlotConflict() {
	slotConflicts.Inc()
}

func IncSlotReserved() {
	slotTransitions.WithLabelValues("reserve").Inc()
}

func IncSlotReleased() {
	slotTransitions.WithLabelValues("release").Inc()
}
