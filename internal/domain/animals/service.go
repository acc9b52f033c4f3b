package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estancia-digital/internal/domain/events"
	"estancia-digital/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicateTag = errors.New("duplicate tag")
	ErrLineageCycle = errors.New("lineage cycle")
	ErrInactive     = errors.New("animal is inactive")
	ErrNotFemale    = errors.New("animal is not female")
)

// maxLineageDepth acota el recorrido de ancestros (datos viejos pueden tener ciclos).
const maxLineageDepth = 64

// Timeline es el subconjunto de events.Service que usamos para la bitácora.
type Timeline interface {
	Create(ctx context.Context, animalID string, actor events.Actor, in events.CreateInput) (events.AnimalEvent, error)
}

type Service struct {
	repo     Repository
	timeline Timeline
	log      logger.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithTimeline(t Timeline) Option {
	return func(s *Service) { s.timeline = t }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  logger.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Tag                string
	Name               string
	Sex                Sex
	BirthDate          *time.Time
	Breed              string
	Traits             string
	ReproductiveStatus string
	Location           string
	BodyCondition      *float64
	HealthStatus       string
	Weight             *float64
	FatherTag          string
	MotherTag          string
	Notes              string

	// ValidateLineage activa el chequeo de ciclos antes de registrar.
	ValidateLineage bool
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Animal, error) {
	ownerID = strings.TrimSpace(ownerID)
	tag := strings.TrimSpace(in.Tag)
	if ownerID == "" || tag == "" || !in.Sex.Valid() {
		return Animal{}, ErrInvalidInput
	}
	if in.Weight != nil && *in.Weight < 0 {
		return Animal{}, ErrInvalidInput
	}

	father := strings.TrimSpace(in.FatherTag)
	mother := strings.TrimSpace(in.MotherTag)
	if in.ValidateLineage {
		if err := s.ValidateNoCycle(ctx, ownerID, tag, father, mother); err != nil {
			return Animal{}, err
		}
	}

	now := s.now()
	a := Animal{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		Tag:                tag,
		Name:               strings.TrimSpace(in.Name),
		Sex:                in.Sex,
		BirthDate:          in.BirthDate,
		Breed:              strings.TrimSpace(in.Breed),
		Traits:             strings.TrimSpace(in.Traits),
		ReproductiveStatus: strings.TrimSpace(in.ReproductiveStatus),
		Location:           strings.TrimSpace(in.Location),
		BodyCondition:      in.BodyCondition,
		HealthStatus:       strings.TrimSpace(in.HealthStatus),
		Weight:             in.Weight,
		FatherTag:          father,
		MotherTag:          mother,
		Notes:              strings.TrimSpace(in.Notes),
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}

	s.record(ctx, a, events.CreateInput{
		Type:       events.TypeAnimalRegistered,
		OccurredAt: now,
		Title:      "Registro de animal " + a.Tag,
	})
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByTag(ctx context.Context, ownerID, tag string) (Animal, error) {
	ownerID = strings.TrimSpace(ownerID)
	tag = strings.TrimSpace(tag)
	if ownerID == "" || tag == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.FindByTag(ctx, ownerID, tag)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Deactivate marca el animal como vendido/muerto. No se borra.
func (s *Service) Deactivate(ctx context.Context, ownerID, id string, reason InactiveReason, at *time.Time) (Animal, error) {
	if reason != InactiveSold && reason != InactiveDead {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerID != ownerID {
		return Animal{}, ErrForbidden
	}
	if !a.Active {
		return Animal{}, ErrInactive
	}

	now := s.now()
	when := now
	if at != nil {
		when = *at
	}
	a.Active = false
	a.InactiveReason = reason
	a.InactiveAt = &when
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}

	s.record(ctx, a, events.CreateInput{
		Type:       events.TypeAnimalDeactivated,
		OccurredAt: when,
		Title:      "Baja: " + string(reason),
	})
	return a, nil
}

// Genealogy resuelve padre/madre por arete y lista las crías registradas.
// Un arete que no resuelve se omite (referencia débil).
func (s *Service) Genealogy(ctx context.Context, ownerID, id string) (Genealogy, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Genealogy{}, err
	}
	if a.OwnerID != ownerID {
		return Genealogy{}, ErrForbidden
	}

	g := Genealogy{Animal: a}
	if a.FatherTag != "" {
		if f, err := s.repo.FindByTag(ctx, ownerID, a.FatherTag); err == nil {
			g.Father = &f
		} else if !errors.Is(err, ErrNotFound) {
			return Genealogy{}, err
		}
	}
	if a.MotherTag != "" {
		if m, err := s.repo.FindByTag(ctx, ownerID, a.MotherTag); err == nil {
			g.Mother = &m
		} else if !errors.Is(err, ErrNotFound) {
			return Genealogy{}, err
		}
	}

	kids, err := s.repo.ListByParentTag(ctx, ownerID, a.Tag)
	if err != nil {
		return Genealogy{}, err
	}
	g.Offspring = kids
	return g, nil
}

// ValidateNoCycle verifica que asignar fatherTag/motherTag al animal tag no lo
// convierta en su propio ancestro. Aretes que no existen cortan el recorrido.
func (s *Service) ValidateNoCycle(ctx context.Context, ownerID, tag, fatherTag, motherTag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ErrInvalidInput
	}

	queue := make([]string, 0, 2)
	for _, p := range []string{strings.TrimSpace(fatherTag), strings.TrimSpace(motherTag)} {
		if p == "" {
			continue
		}
		if p == tag {
			return fmt.Errorf("%w: %s references itself as parent", ErrLineageCycle, tag)
		}
		queue = append(queue, p)
	}

	visited := map[string]struct{}{}
	for depth := 0; len(queue) > 0 && depth < maxLineageDepth; depth++ {
		next := make([]string, 0, len(queue)*2)
		for _, cur := range queue {
			if _, ok := visited[cur]; ok {
				continue
			}
			visited[cur] = struct{}{}

			a, err := s.repo.FindByTag(ctx, ownerID, cur)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			for _, p := range []string{a.FatherTag, a.MotherTag} {
				if p == "" {
					continue
				}
				if p == tag {
					return fmt.Errorf("%w: %s is an ancestor of %s", ErrLineageCycle, tag, cur)
				}
				next = append(next, p)
			}
		}
		queue = next
	}
	return nil
}

func (s *Service) record(ctx context.Context, a Animal, in events.CreateInput) {
	if s.timeline == nil {
		return
	}
	in.Source = events.SourceSystem
	if _, err := s.timeline.Create(ctx, a.ID, events.Actor{Type: events.ActorTypeSystem, ID: a.OwnerID}, in); err != nil {
		s.log.Warn("timeline write failed", map[string]any{"animal_id": a.ID, "type": string(in.Type), "error": err})
	}
}
