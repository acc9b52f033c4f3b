package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]AnimalEvent
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]AnimalEvent{}}
}

func (r *testRepo) Create(ctx context.Context, e AnimalEvent) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (AnimalEvent, error) {
	e, ok := r.byID[id]
	if !ok {
		return AnimalEvent{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]AnimalEvent, error) {
	out := make([]AnimalEvent, 0)
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) Void(ctx context.Context, id string) error {
	e, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = EventStatusVoided
	r.byID[id] = e
	return nil
}

func TestService_Create_ManualOnlyAllowsNotes(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	owner := Actor{Type: ActorTypeOwnerUser, ID: "owner-1"}

	e, err := svc.Create(context.Background(), "animal-1", owner, CreateInput{
		Type:       TypeNote,
		OccurredAt: now.Add(-time.Hour),
		Title:      "  revisión  ",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.Source != SourceManual || e.Status != EventStatusActive || e.Title != "revisión" {
		t.Fatalf("unexpected event: %#v", e)
	}
	if e.OwnerID != "owner-1" || !e.RecordedAt.Equal(now) {
		t.Fatalf("unexpected owner/recorded_at: %#v", e)
	}

	_, err = svc.Create(context.Background(), "animal-1", owner, CreateInput{
		Type:       TypeBirthRegistered,
		OccurredAt: now,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("manual BIRTH_REGISTERED should be rejected, got %v", err)
	}

	sys := Actor{Type: ActorTypeSystem, ID: "owner-1"}
	if _, err := svc.Create(context.Background(), "animal-1", sys, CreateInput{
		Type:        TypeBirthRegistered,
		OccurredAt:  now,
		GestationID: "g-1",
		Source:      SourceSystem,
	}); err != nil {
		t.Fatalf("system events are allowed: %v", err)
	}
}

func TestService_Create_RequiresFields(t *testing.T) {
	svc := NewService(newTestRepo())
	owner := Actor{Type: ActorTypeOwnerUser, ID: "owner-1"}

	cases := []struct {
		name     string
		animalID string
		actor    Actor
		in       CreateInput
	}{
		{"sin animal", "", owner, CreateInput{Type: TypeNote, OccurredAt: time.Now()}},
		{"sin tipo", "a", owner, CreateInput{OccurredAt: time.Now()}},
		{"sin fecha", "a", owner, CreateInput{Type: TypeNote}},
		{"sin actor", "a", Actor{}, CreateInput{Type: TypeNote, OccurredAt: time.Now()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.animalID, tc.actor, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestService_Void(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	e, err := svc.Create(context.Background(), "animal-1", Actor{Type: ActorTypeOwnerUser, ID: "o"}, CreateInput{
		Type:       TypeNote,
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := svc.Void(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != EventStatusVoided {
		t.Fatalf("expected voided, got %s", got.Status)
	}

	if _, err := svc.Void(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
