// Package refresh recalcula las etapas de las gestaciones activas una vez por
// día (a medianoche local) y cuando la vista vuelve a estar visible.
package refresh

import (
	"context"
	"sync"
	"time"

	"estancia-digital/internal/domain/gestations"
	"estancia-digital/internal/platform/logger"
)

// Source entrega las activas de un owner evaluadas en un instante.
// gestations.Service lo implementa.
type Source interface {
	ActiveAt(ctx context.Context, ownerID string, now time.Time) ([]gestations.View, gestations.SweepResult, error)
}

type Reason string

const (
	ReasonStart    Reason = "start"
	ReasonMidnight Reason = "midnight"
	ReasonVisible  Reason = "visible"
	ReasonManual   Reason = "manual"
)

// Snapshot es el resultado de un refresco: todas las etapas con el mismo now.
type Snapshot struct {
	OwnerID    string
	Views      []gestations.View
	Overdue    int
	ComputedAt time.Time
	Reason     Reason
	Err        error
}

// NextBoundary es la próxima medianoche en loc, estrictamente después de now.
func NextBoundary(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

type Scheduler struct {
	src     Source
	ownerID string
	loc     *time.Location
	publish func(Snapshot)
	log     logger.Logger

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time

	mu      sync.Mutex
	visible bool
	stale   bool // pasó la medianoche mientras estaba oculta
	wake    chan struct{}
}

type Option func(*Scheduler)

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

func New(src Source, ownerID string, publish func(Snapshot), opts ...Option) *Scheduler {
	s := &Scheduler{
		src:     src,
		ownerID: ownerID,
		loc:     time.Local,
		publish: publish,
		log:     logger.Nop(),
		now:     time.Now,
		after:   time.After,
		visible: true,
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publish == nil {
		s.publish = func(Snapshot) {}
	}
	return s
}

func (s *Scheduler) Location() *time.Location { return s.loc }

// Refresh lee las activas y calcula todo con un único now. No escribe nada.
func (s *Scheduler) Refresh(ctx context.Context, reason Reason) Snapshot {
	now := s.now()
	views, res, err := s.src.ActiveAt(ctx, s.ownerID, now)
	snap := Snapshot{
		OwnerID:    s.ownerID,
		Views:      views,
		Overdue:    len(res.Flagged),
		ComputedAt: now,
		Reason:     reason,
		Err:        err,
	}
	if err != nil {
		s.log.Warn("refresh failed", map[string]any{"owner_id": s.ownerID, "reason": string(reason), "error": err})
		return snap
	}
	s.log.Debug("refreshed", map[string]any{
		"owner_id": s.ownerID,
		"reason":   string(reason),
		"active":   len(views),
		"overdue":  snap.Overdue,
	})
	return snap
}

// SetVisible avisa cambios de visibilidad. Volver a visible despierta a Run.
func (s *Scheduler) SetVisible(visible bool) {
	s.mu.Lock()
	regained := visible && !s.visible
	s.visible = visible
	s.mu.Unlock()

	if regained {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (s *Scheduler) isVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Run refresca al inicio, en cada medianoche y al recuperar visibilidad,
// hasta que ctx se cancela. Corre en una sola goroutine; si la máquina
// durmió y se saltó medianoches, se recalcula una vez y sigue.
func (s *Scheduler) Run(ctx context.Context) error {
	s.publish(s.Refresh(ctx, ReasonStart))

	for {
		now := s.now()
		wait := NextBoundary(now, s.loc).Sub(now)

		select {
		case <-ctx.Done():
			return nil

		case <-s.after(wait):
			if !s.isVisible() {
				s.mu.Lock()
				s.stale = true
				s.mu.Unlock()
				continue
			}
			s.publish(s.Refresh(ctx, ReasonMidnight))

		case <-s.wake:
			s.mu.Lock()
			s.stale = false
			s.mu.Unlock()
			s.publish(s.Refresh(ctx, ReasonVisible))
		}
	}
}

// Stale indica que hubo una medianoche mientras la vista estaba oculta.
func (s *Scheduler) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}
