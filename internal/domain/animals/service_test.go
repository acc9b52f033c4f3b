package animals

import (
	"context"
	"errors"
	"testing"
	"time"

	"estancia-digital/internal/domain/events"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	for _, cur := range r.byID {
		if cur.OwnerID == a.OwnerID && cur.Tag == a.Tag {
			return ErrDuplicateTag
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) FindByTag(ctx context.Context, ownerID, tag string) (Animal, error) {
	for _, a := range r.byID {
		if a.OwnerID == ownerID && a.Tag == tag {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListByParentTag(ctx context.Context, ownerID, tag string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerID == ownerID && (a.FatherTag == tag || a.MotherTag == tag) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testTimeline struct {
	got []events.CreateInput
	err error
}

func (t *testTimeline) Create(ctx context.Context, animalID string, actor events.Actor, in events.CreateInput) (events.AnimalEvent, error) {
	if t.err != nil {
		return events.AnimalEvent{}, t.err
	}
	t.got = append(t.got, in)
	return events.AnimalEvent{AnimalID: animalID, Type: in.Type}, nil
}

func mustCreate(t *testing.T, svc *Service, owner, tag string, sex Sex, father, mother string) Animal {
	t.Helper()
	a, err := svc.Create(context.Background(), owner, CreateInput{
		Tag:       tag,
		Sex:       sex,
		FatherTag: father,
		MotherTag: mother,
	})
	if err != nil {
		t.Fatalf("create %s: %v", tag, err)
	}
	return a
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_ValidatesAndRecords(t *testing.T) {
	tl := &testTimeline{}
	svc := NewService(newTestRepo(), WithTimeline(tl))

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: " V-01 ", Sex: SexFemale})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a.Tag != "V-01" || !a.Active || !a.CreatedAt.Equal(now) {
		t.Fatalf("unexpected animal: %#v", a)
	}
	if len(tl.got) != 1 || tl.got[0].Type != events.TypeAnimalRegistered || tl.got[0].Source != events.SourceSystem {
		t.Fatalf("expected ANIMAL_REGISTERED system event, got %#v", tl.got)
	}

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "V-02", Sex: "cow"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad sex, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "V-01", Sex: SexMale}); !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
	// Mismo arete en otro hato está permitido.
	if _, err := svc.Create(context.Background(), "owner-2", CreateInput{Tag: "V-01", Sex: SexMale}); err != nil {
		t.Fatalf("tag should be unique per owner only: %v", err)
	}
}

func TestService_Create_TimelineFailureDoesNotFail(t *testing.T) {
	svc := NewService(newTestRepo(), WithTimeline(&testTimeline{err: errors.New("down")}))

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "V-01", Sex: SexFemale}); err != nil {
		t.Fatalf("timeline errors must not fail the registration: %v", err)
	}
}

func TestService_ValidateNoCycle(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	// abuelo -> padre -> hijo
	mustCreate(t, svc, "o", "G", SexMale, "", "")
	mustCreate(t, svc, "o", "P", SexMale, "G", "")
	mustCreate(t, svc, "o", "H", SexFemale, "P", "")

	if err := svc.ValidateNoCycle(ctx, "o", "X", "P", ""); err != nil {
		t.Fatalf("new animal with existing parent should pass: %v", err)
	}
	if err := svc.ValidateNoCycle(ctx, "o", "H", "H", ""); !errors.Is(err, ErrLineageCycle) {
		t.Fatalf("self parent should fail, got %v", err)
	}
	// G no puede tener como madre a su nieta.
	if err := svc.ValidateNoCycle(ctx, "o", "G", "", "H"); !errors.Is(err, ErrLineageCycle) {
		t.Fatalf("descendant as parent should fail, got %v", err)
	}
	// Aretes desconocidos cortan el recorrido.
	if err := svc.ValidateNoCycle(ctx, "o", "G", "UNKNOWN", ""); err != nil {
		t.Fatalf("unknown parent should pass: %v", err)
	}

	_, err := svc.Create(ctx, "o", CreateInput{Tag: "G2", Sex: SexMale, FatherTag: "G2", ValidateLineage: true})
	if !errors.Is(err, ErrLineageCycle) {
		t.Fatalf("create with validate_lineage should reject cycle, got %v", err)
	}
	// Sin la bandera se conserva la referencia débil tal cual.
	if _, err := svc.Create(ctx, "o", CreateInput{Tag: "G2", Sex: SexMale, FatherTag: "G2"}); err != nil {
		t.Fatalf("create without validation should not check lineage: %v", err)
	}
}

func TestService_Deactivate(t *testing.T) {
	tl := &testTimeline{}
	svc := NewService(newTestRepo(), WithTimeline(tl))
	ctx := context.Background()

	a := mustCreate(t, svc, "owner-1", "V-01", SexFemale, "", "")

	if _, err := svc.Deactivate(ctx, "owner-2", a.ID, InactiveSold, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Deactivate(ctx, "owner-1", a.ID, "lost", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := svc.Deactivate(ctx, "owner-1", a.ID, InactiveDead, &at)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Active || got.InactiveReason != InactiveDead || got.InactiveAt == nil || !got.InactiveAt.Equal(at) {
		t.Fatalf("unexpected deactivated animal: %#v", got)
	}

	if _, err := svc.Deactivate(ctx, "owner-1", a.ID, InactiveSold, nil); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive on second deactivate, got %v", err)
	}
	if last := tl.got[len(tl.got)-1]; last.Type != events.TypeAnimalDeactivated {
		t.Fatalf("expected ANIMAL_DEACTIVATED, got %s", last.Type)
	}
}

func TestService_Genealogy(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	mustCreate(t, svc, "o", "TORO-1", SexMale, "", "")
	madre := mustCreate(t, svc, "o", "V-10", SexFemale, "", "")
	mustCreate(t, svc, "o", "C-1", SexFemale, "TORO-1", "V-10")
	mustCreate(t, svc, "o", "C-2", SexMale, "SEMEN-99", "V-10")

	g, err := svc.Genealogy(ctx, "o", madre.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(g.Offspring) != 2 {
		t.Fatalf("expected 2 offspring, got %d", len(g.Offspring))
	}

	kid, _ := svc.FindByTag(ctx, "o", "C-2")
	gk, err := svc.Genealogy(ctx, "o", kid.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gk.Mother == nil || gk.Mother.Tag != "V-10" {
		t.Fatalf("mother should resolve by tag: %#v", gk.Mother)
	}
	if gk.Father != nil {
		t.Fatalf("unregistered sire must be omitted, got %#v", gk.Father)
	}

	if _, err := svc.Genealogy(ctx, "intruso", madre.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
