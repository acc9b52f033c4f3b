package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"estancia-digital/internal/domain/animals"
)

type animalRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalRepo() animals.Repository {
	return &animalRepo{
		byID: make(map[string]animals.Animal),
	}
}

// Create verifica el arete bajo el mismo lock que inserta.
func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	for _, cur := range r.byID {
		if cur.OwnerID == a.OwnerID && cur.Tag == a.Tag {
			return animals.ErrDuplicateTag
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[a.ID]
	if !exists {
		return animals.ErrNotFound
	}
	if cur.Tag != a.Tag {
		for id, other := range r.byID {
			if id != a.ID && other.OwnerID == a.OwnerID && other.Tag == a.Tag {
				return animals.ErrDuplicateTag
			}
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) FindByTag(ctx context.Context, ownerID, tag string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.OwnerID == ownerID && a.Tag == tag {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *animalRepo) ListByOwner(ctx context.Context, ownerID string) ([]animals.Animal, error) {
	return r.list(func(a animals.Animal) bool { return a.OwnerID == ownerID }), nil
}

func (r *animalRepo) ListByParentTag(ctx context.Context, ownerID, tag string) ([]animals.Animal, error) {
	return r.list(func(a animals.Animal) bool {
		return a.OwnerID == ownerID && (a.FatherTag == tag || a.MotherTag == tag)
	}), nil
}

func (r *animalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *animalRepo) list(keep func(animals.Animal) bool) []animals.Animal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}

	// Orden estable por created_at asc, luego arete (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Tag < out[j].Tag
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
