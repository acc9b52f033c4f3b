package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"estancia-digital/internal/domain/events"
)

// eventRepo guarda la bitácora indexada por animal: las lecturas siempre son
// por animal, así que no se recorre el rodeo completo.
type eventRepo struct {
	mu       sync.RWMutex
	byID     map[string]events.AnimalEvent
	byAnimal map[string][]string
}

func NewEventRepo() events.Repository {
	return &eventRepo{
		byID:     make(map[string]events.AnimalEvent),
		byAnimal: make(map[string][]string),
	}
}

func (r *eventRepo) Create(ctx context.Context, e events.AnimalEvent) error {
	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.AnimalID) == "" {
		return errors.New("event id and animal id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e
	r.byAnimal[e.AnimalID] = append(r.byAnimal[e.AnimalID], e.ID)
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (events.AnimalEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.AnimalEvent{}, events.ErrNotFound
	}
	return e, nil
}

// ListByAnimal devuelve la bitácora más reciente primero; a igual occurred_at
// gana el último registrado (mismo orden que el adapter SQL).
func (r *eventRepo) ListByAnimal(ctx context.Context, animalID string, filter events.ListFilter) ([]events.AnimalEvent, error) {
	r.mu.RLock()
	ids := r.byAnimal[animalID]
	out := make([]events.AnimalEvent, 0, len(ids))
	for _, id := range ids {
		if e := r.byID[id]; filter.Matches(e) {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if limit := filter.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Void es idempotente: anular dos veces deja el mismo estado.
func (r *eventRepo) Void(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return events.ErrNotFound
	}
	e.Status = events.EventStatusVoided
	r.byID[id] = e
	return nil
}
