// Package metrics provides Prometheus instrumentation for timing wheels.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "tywheel"

// Registry holds the metric vectors shared by every wheel, labelled by wheel name.
// All methods accept a nil receiver so an uninstrumented wheel pays one branch.
type Registry struct {
	TimersScheduled *prometheus.CounterVec
	TimersFired     *prometheus.CounterVec
	TimersKilled    *prometheus.CounterVec
	TimersRejected  *prometheus.CounterVec
	Cascades        *prometheus.CounterVec
	Ticks           *prometheus.CounterVec
	TimersLinked    *prometheus.GaugeVec
	PendingAdds     *prometheus.GaugeVec
}

// NewRegistry creates the wheel metrics on the given registerer.
func NewRegistry(reg prometheus.Registerer, namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Registry{
		TimersScheduled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "timers_scheduled_total",
				Help:      "Total number of timers linked into the wheel from outside the tick path",
			},
			[]string{"wheel"},
		),

		TimersFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "timers_fired_total",
				Help:      "Total number of timer firings",
			},
			[]string{"wheel"},
		),

		TimersKilled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "timers_killed_total",
				Help:      "Total number of scheduled timers cancelled",
			},
			[]string{"wheel"},
		),

		TimersRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "timers_rejected_total",
				Help:      "Total number of timers rejected for being due beyond the wheel horizon",
			},
			[]string{"wheel"},
		),

		Cascades: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "cascades_total",
				Help:      "Total number of timers redistributed from a higher wheel level",
			},
			[]string{"wheel", "level"},
		),

		Ticks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "ticks_total",
				Help:      "Total number of ticks processed",
			},
			[]string{"wheel"},
		),

		TimersLinked: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "timers_linked",
				Help:      "Number of timers currently linked into the wheel",
			},
			[]string{"wheel"},
		),

		PendingAdds: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "wheel",
				Name:      "pending_adds",
				Help:      "Number of asynchronously added timers waiting for the next tick",
			},
			[]string{"wheel"},
		),
	}
}

func (r *Registry) Scheduled(wheel string) {
	if r == nil {
		return
	}
	r.TimersScheduled.WithLabelValues(wheel).Inc()
}

func (r *Registry) Fired(wheel string) {
	if r == nil {
		return
	}
	r.TimersFired.WithLabelValues(wheel).Inc()
}

func (r *Registry) Killed(wheel string) {
	if r == nil {
		return
	}
	r.TimersKilled.WithLabelValues(wheel).Inc()
}

func (r *Registry) Rejected(wheel string) {
	if r == nil {
		return
	}
	r.TimersRejected.WithLabelValues(wheel).Inc()
}

// Cascaded records n timers moved down from level (2-5).
func (r *Registry) Cascaded(wheel string, level, n int) {
	if r == nil || n == 0 {
		return
	}
	r.Cascades.WithLabelValues(wheel, strconv.Itoa(level)).Add(float64(n))
}

func (r *Registry) Ticked(wheel string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.Ticks.WithLabelValues(wheel).Add(float64(n))
}

func (r *Registry) SetLinked(wheel string, n int) {
	if r == nil {
		return
	}
	r.TimersLinked.WithLabelValues(wheel).Set(float64(n))
}

func (r *Registry) SetPending(wheel string, n int) {
	if r == nil {
		return
	}
	r.PendingAdds.WithLabelValues(wheel).Set(float64(n))
}
