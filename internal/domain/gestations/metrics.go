package gestations

// Metrics recibe contadores del motor de gestaciones.
// La implementación Prometheus vive en internal/platform/metrics.
type Metrics interface {
	GestationCreated()
	OutcomeApplied(kind OutcomeKind, offspring int)
	OutcomeRolledBack()
	SweepCompleted(checked, flagged int)
}

type noopMetrics struct{}

func (noopMetrics) GestationCreated()               {}
func (noopMetrics) OutcomeApplied(OutcomeKind, int) {}
func (noopMetrics) OutcomeRolledBack()              {}
func (noopMetrics) SweepCompleted(int, int)         {}
