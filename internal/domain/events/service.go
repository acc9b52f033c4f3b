package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type        EventType
	OccurredAt  time.Time
	Title       string
	Notes       string
	GestationID string
	Source      Source
}

func (s *Service) Create(ctx context.Context, animalID string, actor Actor, in CreateInput) (AnimalEvent, error) {
	if strings.TrimSpace(animalID) == "" {
		return AnimalEvent{}, ErrInvalidInput
	}
	if in.Type == "" {
		return AnimalEvent{}, ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return AnimalEvent{}, ErrInvalidInput
	}
	if actor.Type == "" || strings.TrimSpace(actor.ID) == "" {
		return AnimalEvent{}, ErrInvalidInput
	}

	src := in.Source
	if src == "" {
		src = SourceManual
	}
	// Por API solo se permiten notas; el resto lo escribe el sistema.
	if src == SourceManual {
		if _, ok := manualTypes[in.Type]; !ok {
			return AnimalEvent{}, ErrInvalidInput
		}
	}

	e := AnimalEvent{
		ID:          uuid.NewString(),
		OwnerID:     actor.ID,
		AnimalID:    animalID,
		Type:        in.Type,
		OccurredAt:  in.OccurredAt,
		RecordedAt:  s.now(),
		Title:       strings.TrimSpace(in.Title),
		Notes:       strings.TrimSpace(in.Notes),
		GestationID: strings.TrimSpace(in.GestationID),
		Actor:       actor,
		Source:      src,
		Status:      EventStatusActive,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return AnimalEvent{}, err
	}
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (AnimalEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AnimalEvent{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string, filter ListFilter) ([]AnimalEvent, error) {
	return s.repo.ListByAnimal(ctx, animalID, filter)
}

// Void marca el evento como voided (no se borra).
func (s *Service) Void(ctx context.Context, id string) (AnimalEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AnimalEvent{}, ErrInvalidInput
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return AnimalEvent{}, err
	}
	return s.repo.GetByID(ctx, id)
}
