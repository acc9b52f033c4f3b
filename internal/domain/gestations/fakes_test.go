package gestations

import (
	"context"
	"errors"
	"sync"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Gestation

	closeErr error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Gestation{}}
}

func (r *testRepo) Create(ctx context.Context, g Gestation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.byID {
		if cur.Active && cur.OwnerID == g.OwnerID && cur.AnimalID == g.AnimalID {
			return ErrDuplicateActiveGestation
		}
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Gestation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return Gestation{}, ErrNotFound
	}
	return g, nil
}

func (r *testRepo) FindActiveByAnimal(ctx context.Context, ownerID, animalID string) (Gestation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.byID {
		if g.Active && g.OwnerID == ownerID && g.AnimalID == animalID {
			return g, nil
		}
	}
	return Gestation{}, ErrNotFound
}

func (r *testRepo) ListActive(ctx context.Context, ownerID string) ([]Gestation, error) {
	all, _ := r.ListByOwner(ctx, ownerID)
	out := make([]Gestation, 0, len(all))
	for _, g := range all {
		if g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Gestation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Gestation, 0)
	for _, g := range r.byID {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, g Gestation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[g.ID]
	if !ok {
		return ErrNotFound
	}
	if !cur.Active {
		return ErrAlreadyClosed
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) Close(ctx context.Context, g Gestation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr != nil {
		return r.closeErr
	}
	cur, ok := r.byID[g.ID]
	if !ok {
		return ErrNotFound
	}
	if !cur.Active {
		return ErrAlreadyClosed
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) SaveCorrection(ctx context.Context, g Gestation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[g.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Active {
		return ErrInvalidCorrection
	}
	r.byID[g.ID] = g
	return nil
}

// -------------------------
// Test registry (animals)
// -------------------------

var errRegistryDown = errors.New("registry: unavailable")

type testRegistry struct {
	mu   sync.Mutex
	byID map[string]animals.Animal

	// failOnCreate > 0 hace fallar el N-ésimo Create.
	failOnCreate int
	creates      int
}

func newTestRegistry() *testRegistry {
	return &testRegistry{byID: map[string]animals.Animal{}}
}

func (r *testRegistry) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.failOnCreate > 0 && r.creates == r.failOnCreate {
		return errRegistryDown
	}
	for _, cur := range r.byID {
		if cur.OwnerID == a.OwnerID && cur.Tag == a.Tag {
			return animals.ErrDuplicateTag
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRegistry) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *testRegistry) FindByTag(ctx context.Context, ownerID, tag string) (animals.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.OwnerID == ownerID && a.Tag == tag {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testRegistry) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return animals.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRegistry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *testRegistry) add(a animals.Animal) animals.Animal {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = a
	return a
}

func (r *testRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *testRegistry) byTag(tag string) (animals.Animal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Tag == tag {
			return a, true
		}
	}
	return animals.Animal{}, false
}

// -------------------------
// Test tx runner / timeline / metrics
// -------------------------

// testTx simula una transacción: si fn falla, deshace lo escrito en registry y repo.
type testTx struct {
	repo     *testRepo
	registry *testRegistry
	calls    int
}

func (tx *testTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++

	tx.registry.mu.Lock()
	animalsSnap := make(map[string]animals.Animal, len(tx.registry.byID))
	for k, v := range tx.registry.byID {
		animalsSnap[k] = v
	}
	tx.registry.mu.Unlock()

	tx.repo.mu.Lock()
	gestSnap := make(map[string]Gestation, len(tx.repo.byID))
	for k, v := range tx.repo.byID {
		gestSnap[k] = v
	}
	tx.repo.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.registry.mu.Lock()
		tx.registry.byID = animalsSnap
		tx.registry.mu.Unlock()
		tx.repo.mu.Lock()
		tx.repo.byID = gestSnap
		tx.repo.mu.Unlock()
		return err
	}
	return nil
}

type testTimeline struct {
	mu  sync.Mutex
	got []events.CreateInput
}

func (t *testTimeline) Create(ctx context.Context, animalID string, actor events.Actor, in events.CreateInput) (events.AnimalEvent, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.got = append(t.got, in)
	return events.AnimalEvent{AnimalID: animalID, Type: in.Type}, nil
}

func (t *testTimeline) types() []events.EventType {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]events.EventType, 0, len(t.got))
	for _, in := range t.got {
		out = append(out, in.Type)
	}
	return out
}

type testMetrics struct {
	mu         sync.Mutex
	created    int
	applied    map[OutcomeKind]int
	offspring  int
	rollbacks  int
	lastSweep  [2]int
	sweepCalls int
}

func newTestMetrics() *testMetrics {
	return &testMetrics{applied: map[OutcomeKind]int{}}
}

func (m *testMetrics) GestationCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *testMetrics) OutcomeApplied(kind OutcomeKind, offspring int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[kind]++
	m.offspring += offspring
}

func (m *testMetrics) OutcomeRolledBack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollbacks++
}

func (m *testMetrics) SweepCompleted(checked, flagged int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepCalls++
	m.lastSweep = [2]int{checked, flagged}
}
