package gestations

import (
	"context"
	"strings"
	"time"
)

// SweepResult resume una pasada de atrasadas. Flagged son las activas con
// más de OverdueGraceDays después de la fecha probable.
type SweepResult struct {
	OwnerID    string
	Checked    int
	Flagged    []View
	ComputedAt time.Time
}

// Sweep reevalúa todas las gestaciones activas del owner en el instante now.
// No cambia estados: atrasada es solo una marca de presentación.
func (s *Service) Sweep(ctx context.Context, ownerID string, now time.Time) (SweepResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return SweepResult{}, ErrInvalidInput
	}

	items, err := s.repo.ListActive(ctx, ownerID)
	if err != nil {
		return SweepResult{}, err
	}

	_, res := evaluate(ownerID, items, now)
	s.metrics.SweepCompleted(res.Checked, len(res.Flagged))
	if len(res.Flagged) > 0 {
		s.log.Info("overdue gestations", map[string]any{
			"owner_id": ownerID,
			"checked":  res.Checked,
			"flagged":  len(res.Flagged),
		})
	}
	return res, nil
}

// ActiveAt devuelve las activas del owner evaluadas en now, ordenadas por
// fecha probable. Es lo que consume el refresco diario.
func (s *Service) ActiveAt(ctx context.Context, ownerID string, now time.Time) ([]View, SweepResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, SweepResult{}, ErrInvalidInput
	}

	items, err := s.repo.ListActive(ctx, ownerID)
	if err != nil {
		return nil, SweepResult{}, err
	}

	views, res := evaluate(ownerID, items, now)
	s.metrics.SweepCompleted(res.Checked, len(res.Flagged))
	return views, res, nil
}

// evaluate calcula la etapa de cada gestación una sola vez con el mismo now.
func evaluate(ownerID string, items []Gestation, now time.Time) ([]View, SweepResult) {
	res := SweepResult{OwnerID: ownerID, ComputedAt: now, Flagged: []View{}}
	views := make([]View, 0, len(items))

	for _, g := range items {
		v := viewAt(g, now)
		views = append(views, v)

		if !g.Active {
			continue
		}
		res.Checked++
		if v.Stage.Overdue {
			res.Flagged = append(res.Flagged, v)
		}
	}

	sortByDueDate(views)
	sortByDueDate(res.Flagged)
	return views, res
}
