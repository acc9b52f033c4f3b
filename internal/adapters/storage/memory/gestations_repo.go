package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"estancia-digital/internal/domain/gestations"
)

type gestationRepo struct {
	mu   sync.RWMutex
	byID map[string]gestations.Gestation
}

func NewGestationRepo() gestations.Repository {
	return &gestationRepo{
		byID: make(map[string]gestations.Gestation),
	}
}

// Create es "crear si no hay activa": chequeo e inserción bajo el mismo lock.
func (r *gestationRepo) Create(ctx context.Context, g gestations.Gestation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(g.ID) == "" {
		return errors.New("gestation id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("gestation already exists")
	}
	if g.Active {
		for _, cur := range r.byID {
			if cur.Active && cur.OwnerID == g.OwnerID && cur.AnimalID == g.AnimalID {
				return gestations.ErrDuplicateActiveGestation
			}
		}
	}
	r.byID[g.ID] = clone(g)
	return nil
}

func (r *gestationRepo) GetByID(ctx context.Context, id string) (gestations.Gestation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return gestations.Gestation{}, gestations.ErrNotFound
	}
	return clone(g), nil
}

func (r *gestationRepo) FindActiveByAnimal(ctx context.Context, ownerID, animalID string) (gestations.Gestation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if g.Active && g.OwnerID == ownerID && g.AnimalID == animalID {
			return clone(g), nil
		}
	}
	return gestations.Gestation{}, gestations.ErrNotFound
}

func (r *gestationRepo) ListActive(ctx context.Context, ownerID string) ([]gestations.Gestation, error) {
	return r.list(func(g gestations.Gestation) bool { return g.OwnerID == ownerID && g.Active }), nil
}

func (r *gestationRepo) ListByOwner(ctx context.Context, ownerID string) ([]gestations.Gestation, error) {
	return r.list(func(g gestations.Gestation) bool { return g.OwnerID == ownerID }), nil
}

func (r *gestationRepo) Update(ctx context.Context, g gestations.Gestation) error {
	return r.replace(g, func(cur gestations.Gestation) error {
		if !cur.Active {
			return gestations.ErrAlreadyClosed
		}
		return nil
	})
}

func (r *gestationRepo) Close(ctx context.Context, g gestations.Gestation) error {
	return r.replace(g, func(cur gestations.Gestation) error {
		if !cur.Active {
			return gestations.ErrAlreadyClosed
		}
		return nil
	})
}

func (r *gestationRepo) SaveCorrection(ctx context.Context, g gestations.Gestation) error {
	return r.replace(g, func(cur gestations.Gestation) error {
		if cur.Active {
			return gestations.ErrInvalidCorrection
		}
		return nil
	})
}

// replace escribe g solo si check acepta el registro actual.
func (r *gestationRepo) replace(g gestations.Gestation, check func(cur gestations.Gestation) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[g.ID]
	if !ok {
		return gestations.ErrNotFound
	}
	if err := check(cur); err != nil {
		return err
	}
	r.byID[g.ID] = clone(g)
	return nil
}

func (r *gestationRepo) list(keep func(gestations.Gestation) bool) []gestations.Gestation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gestations.Gestation, 0)
	for _, g := range r.byID {
		if keep(g) {
			out = append(out, clone(g))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// clone copia los slices para que nadie modifique el estado guardado.
func clone(g gestations.Gestation) gestations.Gestation {
	g.Medications = append([]string(nil), g.Medications...)
	g.Restrictions = append([]string(nil), g.Restrictions...)
	g.Offspring = append([]gestations.OffspringEntry(nil), g.Offspring...)
	return g
}
