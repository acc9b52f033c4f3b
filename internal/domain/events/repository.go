package events

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e AnimalEvent) error
	GetByID(ctx context.Context, id string) (AnimalEvent, error)
	ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]AnimalEvent, error)
	Void(ctx context.Context, id string) error
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ListFilter struct {
	Types []EventType
	From  *time.Time
	To    *time.Time

	// GestationID deja solo los eventos de una gestación (apertura, cierre, parto, corrección).
	GestationID string

	Limit int
}

// EffectiveLimit acota Limit a [1, MaxListLimit]; 0 o negativo toma el default.
func (f ListFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	}
	return f.Limit
}

// Matches aplica tipo, gestación y rango de occurred_at (ambos extremos incluidos).
func (f ListFilter) Matches(e AnimalEvent) bool {
	if f.GestationID != "" && e.GestationID != f.GestationID {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	return true
}
