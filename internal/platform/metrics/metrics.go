package metrics

import (
	"net/http"

	"estancia-digital/internal/domain/gestations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estancia"

// Recorder implementa gestations.Metrics sobre un registry propio
// (no el global, para que los tests puedan crear varios).
type Recorder struct {
	registry *prometheus.Registry

	gestationsCreated prometheus.Counter
	outcomesApplied   *prometheus.CounterVec
	offspringCreated  prometheus.Counter
	outcomeRollbacks  prometheus.Counter
	sweepRuns         prometheus.Counter
	sweepChecked      prometheus.Gauge
	sweepFlagged      prometheus.Gauge
}

var _ gestations.Metrics = (*Recorder)(nil)

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gestationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestations_created_total",
			Help:      "Gestaciones abiertas.",
		}),
		outcomesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestation_outcomes_total",
			Help:      "Resultados registrados por tipo.",
		}, []string{"kind"}),
		offspringCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offspring_created_total",
			Help:      "Crías dadas de alta desde un parto.",
		}),
		outcomeRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestation_outcome_rollbacks_total",
			Help:      "Partos deshechos por una falla al crear crías o cerrar.",
		}),
		sweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_sweeps_total",
			Help:      "Barridos de gestaciones atrasadas.",
		}),
		sweepChecked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_sweep_checked",
			Help:      "Gestaciones activas revisadas en el último barrido.",
		}),
		sweepFlagged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overdue_sweep_flagged",
			Help:      "Gestaciones atrasadas en el último barrido.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gestationsCreated,
		r.outcomesApplied,
		r.offspringCreated,
		r.outcomeRollbacks,
		r.sweepRuns,
		r.sweepChecked,
		r.sweepFlagged,
	)
	return r
}

func (r *Recorder) GestationCreated() {
	r.gestationsCreated.Inc()
}

func (r *Recorder) OutcomeApplied(kind gestations.OutcomeKind, offspring int) {
	r.outcomesApplied.WithLabelValues(string(kind)).Inc()
	if offspring > 0 {
		r.offspringCreated.Add(float64(offspring))
	}
}

func (r *Recorder) OutcomeRolledBack() {
	r.outcomeRollbacks.Inc()
}

func (r *Recorder) SweepCompleted(checked, flagged int) {
	r.sweepRuns.Inc()
	r.sweepChecked.Set(float64(checked))
	r.sweepFlagged.Set(float64(flagged))
}

// Handler expone el registry en formato texto de Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
