package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"
	"estancia-digital/internal/domain/gestations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, SQLite, filepath.Join(t.TempDir(), "estancia.db"), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(ctx, db, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrate_StatusAfterUp(t *testing.T) {
	db := openTestDB(t)

	st, err := Status(context.Background(), db)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Current != 3 || st.Latest != 3 || st.Pending() != 0 {
		t.Fatalf("unexpected status: %+v", st)
	}

	// Correr de nuevo no hace nada.
	if err := Migrate(context.Background(), db, nil); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestRebind(t *testing.T) {
	db := &DB{dialect: SQLite}
	got := db.rebind(`SELECT * FROM t WHERE a = $1 AND b = $12 AND c = '$x'`)
	want := `SELECT * FROM t WHERE a = ?1 AND b = ?12 AND c = '$x'`
	if got != want {
		t.Fatalf("rebind = %q", got)
	}

	pg := &DB{dialect: Postgres}
	if q := pg.rebind("a = $1"); q != "a = $1" {
		t.Fatalf("postgres rebind changed query: %q", q)
	}
}

func TestAnimalsRepo_RoundTripAndDuplicateTag(t *testing.T) {
	db := openTestDB(t)
	repo := NewAnimalsRepo(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	w := 420.5
	a := animals.Animal{
		ID: "a-1", OwnerID: "o", Tag: "V-01", Name: "Lola", Sex: animals.SexFemale,
		Weight: &w, MotherTag: "V-00", Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByTag(ctx, "o", "V-01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "a-1" || got.Weight == nil || *got.Weight != w || !got.Active || got.BirthDate != nil {
		t.Fatalf("unexpected animal: %#v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %s", got.CreatedAt)
	}

	dup := a
	dup.ID = "a-2"
	if err := repo.Create(ctx, dup); !errors.Is(err, animals.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}

	kids, err := repo.ListByParentTag(ctx, "o", "V-00")
	if err != nil || len(kids) != 1 {
		t.Fatalf("by parent = %d, err %v", len(kids), err)
	}

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, animals.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGestationsRepo_OneActivePerAnimal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	if err := NewAnimalsRepo(db).Create(ctx, animals.Animal{
		ID: "cow-1", OwnerID: "o", Tag: "V-01", Sex: animals.SexFemale, Active: true, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("cow: %v", err)
	}

	repo := NewGestationsRepo(db)
	days := 40
	g := gestations.Gestation{
		ID: "g-1", OwnerID: "o", AnimalID: "cow-1", AnimalTag: "V-01",
		ConfirmedDays: &days, Medications: []string{"vitamina A"},
		State: gestations.StateOngoing, Active: true,
		DueDate: now.AddDate(0, 0, 243), CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := g
	second.ID = "g-2"
	if err := repo.Create(ctx, second); !errors.Is(err, gestations.ErrDuplicateActiveGestation) {
		t.Fatalf("expected ErrDuplicateActiveGestation, got %v", err)
	}

	got, err := repo.FindActiveByAnimal(ctx, "o", "cow-1")
	if err != nil {
		t.Fatalf("find active: %v", err)
	}
	if got.ConfirmedDays == nil || *got.ConfirmedDays != 40 || len(got.Medications) != 1 {
		t.Fatalf("unexpected gestation: %#v", got)
	}

	closed := got
	closed.Active = false
	closed.State = gestations.StateSuccessfulBirth
	closed.BirthMode = gestations.BirthNormal
	closed.EventDate = &now
	closed.ClosedAt = &now
	closed.Offspring = []gestations.OffspringEntry{{Tag: "C-1", Sex: animals.SexMale, BirthWeight: 32}}
	if err := repo.Close(ctx, closed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := repo.Close(ctx, closed); !errors.Is(err, gestations.ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
	if err := repo.Update(ctx, got); !errors.Is(err, gestations.ErrAlreadyClosed) {
		t.Fatalf("update closed: %v", err)
	}

	reloaded, err := repo.GetByID(ctx, "g-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(reloaded.Offspring) != 1 || reloaded.Offspring[0].Tag != "C-1" || reloaded.Offspring[0].Sex != animals.SexMale {
		t.Fatalf("offspring not stored: %#v", reloaded.Offspring)
	}

	// Cerrada la primera, el índice parcial admite otra activa.
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create after close: %v", err)
	}
	active, err := repo.ListActive(ctx, "o")
	if err != nil || len(active) != 1 || active[0].ID != "g-2" {
		t.Fatalf("active = %v, err %v", active, err)
	}
}

func TestEventsRepo_ListFiltersAndVoid(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventsRepo(db)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, ty := range []events.EventType{events.TypeAnimalRegistered, events.TypeGestationOpened, events.TypeNote} {
		e := events.AnimalEvent{
			ID: string(rune('a' + i)), OwnerID: "o", AnimalID: "cow-1", Type: ty,
			OccurredAt: base.AddDate(0, 0, i), RecordedAt: base,
			Actor:  events.Actor{Type: events.ActorTypeSystem, ID: "system"},
			Source: events.SourceSystem, Status: events.EventStatusActive,
		}
		if ty == events.TypeGestationOpened {
			e.GestationID = "g-1"
		}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.ListByAnimal(ctx, "cow-1", events.ListFilter{})
	if err != nil || len(all) != 3 || all[0].Type != events.TypeNote {
		t.Fatalf("list = %v, err %v", all, err)
	}

	from := base.AddDate(0, 0, 1)
	notes, err := repo.ListByAnimal(ctx, "cow-1", events.ListFilter{Types: []events.EventType{events.TypeNote, events.TypeAnimalRegistered}, From: &from})
	if err != nil || len(notes) != 1 || notes[0].ID != "c" {
		t.Fatalf("filtered = %v, err %v", notes, err)
	}

	byGestation, err := repo.ListByAnimal(ctx, "cow-1", events.ListFilter{GestationID: "g-1"})
	if err != nil || len(byGestation) != 1 || byGestation[0].Type != events.TypeGestationOpened {
		t.Fatalf("by gestation = %v, err %v", byGestation, err)
	}

		if err := repo.Void(ctx, "c"); err != nil {
		t.Fatalf("void: %v", err)
	}
	got, _ := repo.GetByID(ctx, "c")
	if got.Status != events.EventStatusVoided {
		t.Fatalf("status = %s", got.Status)
	}
	if err := repo.Void(ctx, "zz"); !errors.Is(err, events.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// El parto completo corre en una transacción: si una cría choca, no queda nada.
func TestOutcomeInTx_RollsBackOnDuplicateTag(t *testing.T) {
	db := openTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	timeline := events.NewService(store.Events)
	animalSvc := animals.NewService(store.Animals, animals.WithTimeline(timeline))
	gestSvc := gestations.NewService(store.Gestations, store.Animals,
		gestations.WithTimeline(timeline),
		gestations.WithTxRunner(db),
	)

	cow, err := animalSvc.Create(ctx, "o", animals.CreateInput{Tag: "V-01", Sex: animals.SexFemale})
	if err != nil {
		t.Fatalf("cow: %v", err)
	}
	if _, err := animalSvc.Create(ctx, "o", animals.CreateInput{Tag: "C-2", Sex: animals.SexMale}); err != nil {
		t.Fatalf("existing calf: %v", err)
	}
	g, err := gestSvc.Create(ctx, "o", gestations.CreateInput{AnimalID: cow.ID})
	if err != nil {
		t.Fatalf("gestation: %v", err)
	}

	_, err = gestSvc.ApplyOutcome(ctx, "o", g.ID, gestations.OutcomeInput{
		Kind:      gestations.OutcomeBirth,
		EventDate: time.Now(),
		Offspring: []gestations.OffspringEntry{
			{Tag: "C-1", Sex: animals.SexFemale, BirthWeight: 30},
			{Tag: "C-2", Sex: animals.SexMale, BirthWeight: 31},
		},
	})
	if !errors.Is(err, animals.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}

	if _, err := store.Animals.FindByTag(ctx, "o", "C-1"); !errors.Is(err, animals.ErrNotFound) {
		t.Fatalf("C-1 should have been rolled back, got %v", err)
	}
	got, err := gestSvc.Get(ctx, "o", g.ID)
	if err != nil || !got.Active {
		t.Fatalf("gestation should remain active: %v", err)
	}

	// Con aretes válidos el mismo parto entra completo.
	res, err := gestSvc.ApplyOutcome(ctx, "o", g.ID, gestations.OutcomeInput{
		Kind:      gestations.OutcomeBirth,
		EventDate: time.Now(),
		Offspring: []gestations.OffspringEntry{{Tag: "C-1", Sex: animals.SexFemale, BirthWeight: 30}},
	})
	if err != nil {
		t.Fatalf("outcome: %v", err)
	}
	if res.OffspringCreated != 1 || res.Gestation.Active {
		t.Fatalf("unexpected result: %+v", res)
	}
}
