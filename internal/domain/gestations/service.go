package gestations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"
	"estancia-digital/internal/platform/logger"
	"estancia-digital/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrNotFound                 = errors.New("gestation not found")
	ErrDuplicateActiveGestation = errors.New("animal already has an active gestation")
	ErrAlreadyClosed            = errors.New("gestation already closed")
	ErrInvalidOffspring         = errors.New("invalid offspring")
	ErrInvalidCorrection        = errors.New("invalid outcome correction")
)

// Timeline es el subconjunto de events.Service que usamos para la bitácora.
type Timeline interface {
	Create(ctx context.Context, animalID string, actor events.Actor, in events.CreateInput) (events.AnimalEvent, error)
}

type Service struct {
	repo     Repository
	animals  Registry
	tx       storage.TxRunner
	timeline Timeline
	metrics  Metrics
	log      logger.Logger
	locks    *keyedMutex
	now      func() time.Time
}

type Option func(*Service)

// WithTxRunner hace que los partos se escriban en una sola transacción.
// Sin él se usa escritura ordenada + borrado compensatorio.
func WithTxRunner(tx storage.TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

func WithTimeline(t Timeline) Option {
	return func(s *Service) { s.timeline = t }
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(repo Repository, registry Registry, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		animals: registry,
		metrics: noopMetrics{},
		log:     logger.Nop(),
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	AnimalID string

	ConfirmationDate *time.Time
	ConfirmedDays    *int
	ServiceDate      *time.Time

	ServiceType ServiceType
	SireID      string
	SemenBatch  string

	DietNotes           string
	Medications         []string
	Restrictions        []string
	RecommendedExercise string
	InitialWeight       *float64
}

// Create abre una gestación para una hembra activa del owner.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (View, error) {
	ownerID = strings.TrimSpace(ownerID)
	animalID := strings.TrimSpace(in.AnimalID)
	if ownerID == "" || animalID == "" {
		return View{}, ErrInvalidInput
	}
	if in.ConfirmedDays != nil && *in.ConfirmedDays < 0 {
		return View{}, ErrInvalidInput
	}
	if in.ServiceType != "" && !in.ServiceType.Valid() {
		return View{}, ErrInvalidInput
	}
	if in.InitialWeight != nil && *in.InitialWeight < 0 {
		return View{}, ErrInvalidInput
	}

	mother, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		return View{}, err
	}
	if mother.OwnerID != ownerID {
		return View{}, animals.ErrNotFound
	}
	if mother.Sex != animals.SexFemale {
		return View{}, animals.ErrNotFemale
	}
	if !mother.Active {
		return View{}, animals.ErrInactive
	}

	if err := s.AssertCreatable(ctx, ownerID, animalID); err != nil {
		return View{}, err
	}

	now := s.now()
	g := Gestation{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		AnimalID:            mother.ID,
		AnimalTag:           mother.Tag,
		AnimalName:          mother.Name,
		ConfirmationDate:    in.ConfirmationDate,
		ConfirmedDays:       in.ConfirmedDays,
		ServiceDate:         in.ServiceDate,
		ServiceType:         in.ServiceType,
		SireID:              strings.TrimSpace(in.SireID),
		SemenBatch:          strings.TrimSpace(in.SemenBatch),
		DietNotes:           strings.TrimSpace(in.DietNotes),
		Medications:         cleanList(in.Medications),
		Restrictions:        cleanList(in.Restrictions),
		RecommendedExercise: strings.TrimSpace(in.RecommendedExercise),
		InitialWeight:       in.InitialWeight,
		CurrentWeight:       in.InitialWeight,
		State:               StateOngoing,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	stage := ComputeStage(g, now)
	g.DueDate = stage.DueDate

	if err := s.repo.Create(ctx, g); err != nil {
		return View{}, err
	}

	s.metrics.GestationCreated()
	s.record(ctx, g, g.AnimalID, events.CreateInput{
		Type:       events.TypeGestationOpened,
		OccurredAt: stage.BaselineDate,
		Title:      "Gestación abierta, parto probable " + stage.DueDate.Format("2006-01-02"),
	})

	return View{Gestation: g, Stage: stage}, nil
}

// UpdateInput es un PATCH: nil = no tocar.
type UpdateInput struct {
	ConfirmationDate *time.Time
	ConfirmedDays    *int
	ServiceDate      *time.Time

	ServiceType *ServiceType
	SireID      *string
	SemenBatch  *string

	DietNotes           *string
	Medications         *[]string
	Restrictions        *[]string
	RecommendedExercise *string
	CurrentWeight       *float64
}

// Update edita línea base y cuidados de una gestación activa.
// La fecha probable de parto se recalcula desde la nueva línea base.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (View, error) {
	if in.ConfirmedDays != nil && *in.ConfirmedDays < 0 {
		return View{}, ErrInvalidInput
	}
	if in.ServiceType != nil && *in.ServiceType != "" && !in.ServiceType.Valid() {
		return View{}, ErrInvalidInput
	}
	if in.CurrentWeight != nil && *in.CurrentWeight < 0 {
		return View{}, ErrInvalidInput
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.get(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	if !g.Active {
		return View{}, ErrAlreadyClosed
	}

	if in.ConfirmationDate != nil {
		g.ConfirmationDate = in.ConfirmationDate
	}
	if in.ConfirmedDays != nil {
		g.ConfirmedDays = in.ConfirmedDays
	}
	if in.ServiceDate != nil {
		g.ServiceDate = in.ServiceDate
	}
	if in.ServiceType != nil {
		g.ServiceType = *in.ServiceType
	}
	if in.SireID != nil {
		g.SireID = strings.TrimSpace(*in.SireID)
	}
	if in.SemenBatch != nil {
		g.SemenBatch = strings.TrimSpace(*in.SemenBatch)
	}
	if in.DietNotes != nil {
		g.DietNotes = strings.TrimSpace(*in.DietNotes)
	}
	if in.Medications != nil {
		g.Medications = cleanList(*in.Medications)
	}
	if in.Restrictions != nil {
		g.Restrictions = cleanList(*in.Restrictions)
	}
	if in.RecommendedExercise != nil {
		g.RecommendedExercise = strings.TrimSpace(*in.RecommendedExercise)
	}
	if in.CurrentWeight != nil {
		g.CurrentWeight = in.CurrentWeight
	}

	now := s.now()
	stage := ComputeStage(g, now)
	g.DueDate = stage.DueDate
	g.UpdatedAt = now

	if err := s.repo.Update(ctx, g); err != nil {
		return View{}, err
	}
	return View{Gestation: g, Stage: stage}, nil
}

// Get devuelve la gestación con su etapa calculada ahora.
func (s *Service) Get(ctx context.Context, ownerID, id string) (View, error) {
	g, err := s.get(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	return viewAt(g, s.now()), nil
}

// List devuelve las gestaciones del owner ordenadas por fecha probable de parto.
// Todas las cifras salen de un único instante; el barrido de atrasadas se
// calcula en la misma pasada.
func (s *Service) List(ctx context.Context, ownerID string, activeOnly bool) ([]View, SweepResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, SweepResult{}, ErrInvalidInput
	}

	var (
		items []Gestation
		err   error
	)
	if activeOnly {
		items, err = s.repo.ListActive(ctx, ownerID)
	} else {
		items, err = s.repo.ListByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, SweepResult{}, err
	}

	views, res := evaluate(ownerID, items, s.now())
	s.metrics.SweepCompleted(res.Checked, len(res.Flagged))
	return views, res, nil
}

func (s *Service) get(ctx context.Context, ownerID, id string) (Gestation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Gestation{}, ErrInvalidInput
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Gestation{}, err
	}
	// No revelamos gestaciones de otros owners.
	if g.OwnerID != ownerID {
		return Gestation{}, ErrNotFound
	}
	return g, nil
}

// viewAt congela las cifras de una gestación cerrada en su fecha de evento.
func viewAt(g Gestation, now time.Time) View {
	if !g.Active {
		at := now
		if g.EventDate != nil {
			at = *g.EventDate
		}
		st := ComputeStage(g, at)
		st.Overdue = false
		return View{Gestation: g, Stage: st}
	}
	return View{Gestation: g, Stage: ComputeStage(g, now)}
}

func sortByDueDate(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Stage.DueDate.Equal(views[j].Stage.DueDate) {
			return views[i].AnimalTag < views[j].AnimalTag
		}
		return views[i].Stage.DueDate.Before(views[j].Stage.DueDate)
	})
}

func (s *Service) record(ctx context.Context, g Gestation, animalID string, in events.CreateInput) {
	if s.timeline == nil {
		return
	}
	in.Source = events.SourceSystem
	in.GestationID = g.ID
	if _, err := s.timeline.Create(ctx, animalID, events.Actor{Type: events.ActorTypeSystem, ID: g.OwnerID}, in); err != nil {
		s.log.Warn("timeline write failed", map[string]any{
			"gestation_id": g.ID,
			"animal_id":    animalID,
			"type":         string(in.Type),
			"error":        err,
		})
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
