package gestations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"
)

type fixture struct {
	svc      *Service
	repo     *testRepo
	registry *testRegistry
	timeline *testTimeline
	metrics  *testMetrics
	now      time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newTestRepo(),
		registry: newTestRegistry(),
		timeline: &testTimeline{},
		metrics:  newTestMetrics(),
		now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	opts = append([]Option{WithTimeline(f.timeline), WithMetrics(f.metrics)}, opts...)
	f.svc = NewService(f.repo, f.registry, opts...)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) cow(owner, id, tag string) animals.Animal {
	return f.registry.add(animals.Animal{
		ID:      id,
		OwnerID: owner,
		Tag:     tag,
		Name:    "Lola",
		Sex:     animals.SexFemale,
		Active:  true,
	})
}

func (f *fixture) open(t *testing.T, owner, animalID string, in CreateInput) View {
	t.Helper()
	in.AnimalID = animalID
	v, err := f.svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create gestation: %v", err)
	}
	return v
}

func TestService_Create_ComputesAndStoresDueDate(t *testing.T) {
	f := newFixture(t)
	f.cow("owner-1", "cow-1", "V-01")

	v := f.open(t, "owner-1", "cow-1", CreateInput{
		ServiceDate: ptrTime(date(2024, 1, 1)),
		ServiceType: ServiceArtificialInsemination,
		SireID:      "TORO-7",
		Medications: []string{" vitamina A ", ""},
	})

	if v.State != StateOngoing || !v.Active {
		t.Fatalf("unexpected state: %s active=%v", v.State, v.Active)
	}
	if v.AnimalTag != "V-01" || v.AnimalName != "Lola" {
		t.Fatalf("mother data not denormalized: %#v", v.Gestation)
	}
	if v.Stage.CurrentDay != 121 || v.Stage.Trimester != 2 {
		t.Fatalf("unexpected stage: %+v", v.Stage)
	}
	stored, _ := f.repo.GetByID(context.Background(), v.ID)
	if !stored.DueDate.Equal(date(2024, 1, 1).AddDate(0, 0, 283)) {
		t.Fatalf("stored due = %s", stored.DueDate)
	}
	if len(stored.Medications) != 1 || stored.Medications[0] != "vitamina A" {
		t.Fatalf("medications not cleaned: %#v", stored.Medications)
	}
	if f.metrics.created != 1 {
		t.Fatalf("metrics created = %d", f.metrics.created)
	}
	if ty := f.timeline.types(); len(ty) != 1 || ty[0] != events.TypeGestationOpened {
		t.Fatalf("expected GESTATION_OPENED, got %v", ty)
	}
}

func TestService_Create_WithoutDatesStartsAtZero(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")

	v := f.open(t, "o", "cow-1", CreateInput{})
	if v.Stage.Baseline != BaselineCreation || v.Stage.CurrentDay != 0 || v.Stage.RemainingDays != 283 {
		t.Fatalf("unexpected stage: %+v", v.Stage)
	}
	if !v.DueDate.Equal(f.now.AddDate(0, 0, 283)) {
		t.Fatalf("due = %s", v.DueDate)
	}
}

func TestService_Create_RejectsInvalidMother(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")
	f.registry.add(animals.Animal{ID: "bull-1", OwnerID: "o", Tag: "T-01", Sex: animals.SexMale, Active: true})
	f.registry.add(animals.Animal{ID: "sold-1", OwnerID: "o", Tag: "V-09", Sex: animals.SexFemale, Active: false})

	cases := []struct {
		name  string
		owner string
		in    CreateInput
		want  error
	}{
		{"sin animal", "o", CreateInput{}, ErrInvalidInput},
		{"inexistente", "o", CreateInput{AnimalID: "nope"}, animals.ErrNotFound},
		{"de otro owner", "otro", CreateInput{AnimalID: "cow-1"}, animals.ErrNotFound},
		{"macho", "o", CreateInput{AnimalID: "bull-1"}, animals.ErrNotFemale},
		{"inactiva", "o", CreateInput{AnimalID: "sold-1"}, animals.ErrInactive},
		{"días negativos", "o", CreateInput{AnimalID: "cow-1", ConfirmedDays: ptrInt(-1)}, ErrInvalidInput},
		{"tipo de servicio", "o", CreateInput{AnimalID: "cow-1", ServiceType: "clonación"}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(context.Background(), tc.owner, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_Create_OneActivePerAnimal(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")

	first := f.open(t, "o", "cow-1", CreateInput{})

	_, err := f.svc.Create(context.Background(), "o", CreateInput{AnimalID: "cow-1"})
	if !errors.Is(err, ErrDuplicateActiveGestation) {
		t.Fatalf("expected ErrDuplicateActiveGestation, got %v", err)
	}

	// Cerrada la primera, se puede abrir otra.
	if _, err := f.svc.ApplyOutcome(context.Background(), "o", first.ID, OutcomeInput{
		Kind:      OutcomeAbortion,
		EventDate: f.now,
	}); err != nil {
		t.Fatalf("close: %v", err)
	}
	f.open(t, "o", "cow-1", CreateInput{})
}

func TestService_Create_ConcurrentRequestsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), "o", CreateInput{AnimalID: "cow-1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateActiveGestation):
				dups++
			default:
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dups != n-1 {
		t.Fatalf("ok=%d dups=%d, want 1/%d", ok, dups, n-1)
	}
}

func TestService_Update_RecomputesDueDate(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")
	v := f.open(t, "o", "cow-1", CreateInput{})

	conf := date(2024, 4, 1)
	days := 50
	notes := "  heno y sales "
	got, err := f.svc.Update(context.Background(), "o", v.ID, UpdateInput{
		ConfirmationDate: &conf,
		ConfirmedDays:    &days,
		DietNotes:        &notes,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Stage.Baseline != BaselineConfirmation || got.Stage.CurrentDay != 80 {
		t.Fatalf("unexpected stage: %+v", got.Stage)
	}
	if !got.DueDate.Equal(conf.AddDate(0, 0, -50).AddDate(0, 0, 283)) {
		t.Fatalf("due not recomputed: %s", got.DueDate)
	}
	if got.DietNotes != "heno y sales" {
		t.Fatalf("diet notes = %q", got.DietNotes)
	}

	if _, err := f.svc.Update(context.Background(), "otro", v.ID, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}

	if _, err := f.svc.ApplyOutcome(context.Background(), "o", v.ID, OutcomeInput{Kind: OutcomeAbortion, EventDate: f.now}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.svc.Update(context.Background(), "o", v.ID, UpdateInput{DietNotes: &notes}); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestService_ListAndSweep_UseSingleInstant(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")
	f.cow("o", "cow-2", "V-02")
	f.cow("o", "cow-3", "V-03")

	// 300 días: atrasada. 100 días: trimestre 2. Cerrada: no cuenta.
	f.open(t, "o", "cow-1", CreateInput{ServiceDate: ptrTime(f.now.AddDate(0, 0, -300))})
	f.open(t, "o", "cow-2", CreateInput{ServiceDate: ptrTime(f.now.AddDate(0, 0, -100))})
	closed := f.open(t, "o", "cow-3", CreateInput{ServiceDate: ptrTime(f.now.AddDate(0, 0, -350))})
	if _, err := f.svc.ApplyOutcome(context.Background(), "o", closed.ID, OutcomeInput{Kind: OutcomeAbortion, EventDate: f.now}); err != nil {
		t.Fatalf("close: %v", err)
	}

	views, res, err := f.svc.List(context.Background(), "o", false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 3 || res.Checked != 2 || len(res.Flagged) != 1 {
		t.Fatalf("views=%d checked=%d flagged=%d", len(views), res.Checked, len(res.Flagged))
	}
	for _, v := range views {
		if !v.Stage.ComputedAt.Equal(f.now) {
			t.Fatalf("stage computed at %s, want %s", v.Stage.ComputedAt, f.now)
		}
		if !v.Active && v.Stage.Overdue {
			t.Fatalf("closed gestation cannot be overdue")
		}
	}
	// Ordenadas por fecha probable de parto.
	for i := 1; i < len(views); i++ {
		if views[i].Stage.DueDate.Before(views[i-1].Stage.DueDate) {
			t.Fatalf("views not sorted by due date")
		}
	}

	active, _, err := f.svc.List(context.Background(), "o", true)
	if err != nil || len(active) != 2 {
		t.Fatalf("active list = %d, err %v", len(active), err)
	}

	sw, err := f.svc.Sweep(context.Background(), "o", f.now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sw.Checked != 2 || len(sw.Flagged) != 1 || sw.Flagged[0].AnimalTag != "V-01" {
		t.Fatalf("unexpected sweep: %+v", sw)
	}
	if sw.Flagged[0].State != StateOngoing {
		t.Fatalf("sweep must not change state")
	}
	stored, _ := f.repo.GetByID(context.Background(), sw.Flagged[0].ID)
	if stored.State != StateOngoing || !stored.Active {
		t.Fatalf("sweep must not write: %#v", stored)
	}
	if f.metrics.lastSweep != [2]int{2, 1} {
		t.Fatalf("metrics sweep = %v", f.metrics.lastSweep)
	}
}

func TestService_Get_HidesOtherOwners(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")
	v := f.open(t, "o", "cow-1", CreateInput{})

	if _, err := f.svc.Get(context.Background(), "otro", v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got, err := f.svc.Get(context.Background(), "o", v.ID)
	if err != nil || got.ID != v.ID {
		t.Fatalf("get: %v", err)
	}
}

func TestService_ActiveAt_EvaluatesAtGivenInstant(t *testing.T) {
	f := newFixture(t)
	f.cow("o", "cow-1", "V-01")
	f.open(t, "o", "cow-1", CreateInput{ServiceDate: ptrTime(f.now.AddDate(0, 0, -280))})

	later := f.now.AddDate(0, 0, 11)
	views, res, err := f.svc.ActiveAt(context.Background(), "o", later)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(views) != 1 || views[0].Stage.CurrentDay != 291 || !views[0].Stage.Overdue {
		t.Fatalf("unexpected views: %+v", views)
	}
	if !res.ComputedAt.Equal(later) || len(res.Flagged) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, _, err := f.svc.ActiveAt(context.Background(), " ", later); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
