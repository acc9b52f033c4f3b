package gestations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/events"

	"github.com/google/uuid"
)

type OutcomeInput struct {
	Kind              OutcomeKind
	EventDate         time.Time
	BirthMode         BirthMode
	ComplicationNotes string
	Offspring         []OffspringEntry
}

type OutcomeResult struct {
	Gestation        View
	OffspringCreated int
}

// outcomeRule dice a qué estado lleva cada resultado y qué crías admite.
type outcomeRule struct {
	state     State
	offspring offspringRule
}

type offspringRule int

const (
	offspringRequired offspringRule = iota
	offspringOptional
	offspringForbidden
)

var outcomeRules = map[OutcomeKind]outcomeRule{
	OutcomeBirth:          {state: StateSuccessfulBirth, offspring: offspringRequired},
	OutcomeDifficultBirth: {state: StateDifficultBirth, offspring: offspringRequired},
	OutcomeComplications:  {state: StateComplications, offspring: offspringOptional},
	OutcomeAbortion:       {state: StateAbortion, offspring: offspringForbidden},
}

// ApplyOutcome cierra la gestación y, si hubo parto, registra las crías.
// Crías y cierre se confirman juntos: en una transacción si hay TxRunner, o
// con cierre al final y borrado de las crías ya creadas si algo falla.
func (s *Service) ApplyOutcome(ctx context.Context, ownerID, id string, in OutcomeInput) (OutcomeResult, error) {
	rule, err := validateOutcome(in)
	if err != nil {
		return OutcomeResult{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.get(ctx, ownerID, id)
	if err != nil {
		return OutcomeResult{}, err
	}
	if !g.Active {
		return OutcomeResult{}, ErrAlreadyClosed
	}

	now := s.now()
	event := in.EventDate

	closed := g
	closed.State = rule.state
	closed.Active = false
	closed.EventDate = &event
	closed.ComplicationNotes = strings.TrimSpace(in.ComplicationNotes)
	closed.Offspring = normalizeOffspring(in.Offspring)
	closed.ClosedAt = &now
	closed.UpdatedAt = now
	closed.BirthMode = ""
	if rule.state != StateAbortion {
		closed.BirthMode = in.BirthMode
		if closed.BirthMode == "" && len(closed.Offspring) > 0 {
			closed.BirthMode = BirthNormal
		}
	}

	kids := make([]animals.Animal, 0, len(closed.Offspring))
	for _, o := range closed.Offspring {
		kids = append(kids, offspringAnimal(closed, o, now))
	}

	if s.tx != nil {
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			for _, k := range kids {
				if err := s.animals.Create(ctx, k); err != nil {
					return err
				}
			}
			return s.repo.Close(ctx, closed)
		})
	} else {
		err = s.writeCompensated(ctx, closed, kids)
	}
	if err != nil {
		if len(kids) > 0 {
			s.metrics.OutcomeRolledBack()
		}
		s.log.Warn("outcome not applied", map[string]any{
			"gestation_id": id,
			"kind":         string(in.Kind),
			"offspring":    len(kids),
			"error":        err,
		})
		return OutcomeResult{}, err
	}

	s.metrics.OutcomeApplied(in.Kind, len(kids))
	s.recordOutcome(ctx, closed, kids)

	return OutcomeResult{
		Gestation:        viewAt(closed, now),
		OffspringCreated: len(kids),
	}, nil
}

// writeCompensated crea las crías primero y cierra la gestación al final.
// Ante cualquier error borra las crías que esta misma llamada creó.
func (s *Service) writeCompensated(ctx context.Context, closed Gestation, kids []animals.Animal) error {
	created := make([]string, 0, len(kids))

	for _, k := range kids {
		if err := s.animals.Create(ctx, k); err != nil {
			s.rollbackOffspring(ctx, created)
			return err
		}
		created = append(created, k.ID)
	}

	if err := s.repo.Close(ctx, closed); err != nil {
		s.rollbackOffspring(ctx, created)
		return err
	}
	return nil
}

func (s *Service) rollbackOffspring(ctx context.Context, ids []string) {
	// La compensación debe correr aunque el request se haya cancelado.
	ctx = context.WithoutCancel(ctx)
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.animals.Delete(ctx, ids[i]); err != nil {
			s.log.Error("offspring rollback failed", map[string]any{
				"animal_id": ids[i],
				"error":     err,
			})
		}
	}
}

func validateOutcome(in OutcomeInput) (outcomeRule, error) {
	rule, ok := outcomeRules[in.Kind]
	if !ok {
		return outcomeRule{}, fmt.Errorf("%w: unknown outcome kind %q", ErrInvalidInput, in.Kind)
	}
	if in.EventDate.IsZero() {
		return outcomeRule{}, fmt.Errorf("%w: event date required", ErrInvalidInput)
	}
	if in.BirthMode != "" {
		if rule.state == StateAbortion || !in.BirthMode.Valid() {
			return outcomeRule{}, fmt.Errorf("%w: birth mode %q", ErrInvalidInput, in.BirthMode)
		}
	}

	switch rule.offspring {
	case offspringRequired:
		if len(in.Offspring) == 0 {
			return outcomeRule{}, fmt.Errorf("%w: at least one offspring required", ErrInvalidOffspring)
		}
	case offspringForbidden:
		if len(in.Offspring) > 0 {
			return outcomeRule{}, fmt.Errorf("%w: abortion cannot register offspring", ErrInvalidOffspring)
		}
	}

	seen := make(map[string]struct{}, len(in.Offspring))
	for i, o := range in.Offspring {
		tag := strings.TrimSpace(o.Tag)
		if tag == "" {
			return outcomeRule{}, fmt.Errorf("%w: offspring %d without tag", ErrInvalidOffspring, i+1)
		}
		if !o.Sex.Valid() {
			return outcomeRule{}, fmt.Errorf("%w: offspring %s has invalid sex", ErrInvalidOffspring, tag)
		}
		if o.BirthWeight < 0 {
			return outcomeRule{}, fmt.Errorf("%w: offspring %s has negative weight", ErrInvalidOffspring, tag)
		}
		if _, dup := seen[tag]; dup {
			return outcomeRule{}, fmt.Errorf("%w: tag %s repeated", ErrInvalidOffspring, tag)
		}
		seen[tag] = struct{}{}
	}
	return rule, nil
}

func normalizeOffspring(in []OffspringEntry) []OffspringEntry {
	out := make([]OffspringEntry, 0, len(in))
	for _, o := range in {
		out = append(out, OffspringEntry{
			Tag:         strings.TrimSpace(o.Tag),
			Sex:         o.Sex,
			BirthWeight: o.BirthWeight,
			Notes:       strings.TrimSpace(o.Notes),
		})
	}
	return out
}

// offspringAnimal arma la cría con valores por defecto para lo que no se conoce.
func offspringAnimal(g Gestation, o OffspringEntry, now time.Time) animals.Animal {
	birth := *g.EventDate
	weight := o.BirthWeight

	note := "Nacido de " + g.AnimalTag
	if g.SireID != "" {
		note += " y " + g.SireID
	}
	note += " (gestación " + g.ID + ")"
	if o.Notes != "" {
		note += ". " + o.Notes
	}

	return animals.Animal{
		ID:                 uuid.NewString(),
		OwnerID:            g.OwnerID,
		Tag:                o.Tag,
		Sex:                o.Sex,
		BirthDate:          &birth,
		Breed:              animals.DefaultOffspringBreed,
		ReproductiveStatus: animals.DefaultOffspringReproductiveStatus,
		Location:           animals.DefaultOffspringLocation,
		Weight:             &weight,
		FatherTag:          g.SireID,
		MotherTag:          g.AnimalTag,
		Notes:              note,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *Service) recordOutcome(ctx context.Context, g Gestation, kids []animals.Animal) {
	at := *g.EventDate

	s.record(ctx, g, g.AnimalID, events.CreateInput{
		Type:       events.TypeGestationClosed,
		OccurredAt: at,
		Title:      "Gestación cerrada: " + string(g.State),
		Notes:      g.ComplicationNotes,
	})
	if len(kids) == 0 {
		return
	}

	tags := make([]string, 0, len(kids))
	for _, k := range kids {
		tags = append(tags, k.Tag)
		s.record(ctx, g, k.ID, events.CreateInput{
			Type:       events.TypeAnimalRegistered,
			OccurredAt: at,
			Title:      "Nacimiento, madre " + g.AnimalTag,
		})
	}
	s.record(ctx, g, g.AnimalID, events.CreateInput{
		Type:       events.TypeBirthRegistered,
		OccurredAt: at,
		Title:      fmt.Sprintf("Parto (%s): %d cría(s)", g.BirthMode, len(kids)),
		Notes:      strings.Join(tags, ", "),
	})
}

// CorrectionInput corrige datos de un resultado ya registrado. nil = no tocar.
type CorrectionInput struct {
	State             *State
	EventDate         *time.Time
	BirthMode         *BirthMode
	ComplicationNotes *string
}

// CorrectOutcome ajusta detalles de una gestación cerrada. Nunca la reabre y
// solo reclasifica entre estados de parto; un aborto sigue siendo aborto.
// Si cambia la fecha del parto, las crías registradas toman la nueva como
// fecha de nacimiento, en la misma transacción que la corrección.
func (s *Service) CorrectOutcome(ctx context.Context, ownerID, id string, in CorrectionInput) (View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	g, err := s.get(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	if g.Active {
		return View{}, fmt.Errorf("%w: gestation has no outcome yet", ErrInvalidCorrection)
	}

	if in.State != nil && *in.State != g.State {
		target := *in.State
		if !target.Terminal() || g.State == StateAbortion || target == StateAbortion {
			return View{}, fmt.Errorf("%w: %s -> %s", ErrInvalidCorrection, g.State, target)
		}
		if target != StateComplications && len(g.Offspring) == 0 {
			return View{}, fmt.Errorf("%w: %s requires offspring", ErrInvalidCorrection, target)
		}
		g.State = target
	}

	if in.BirthMode != nil {
		if g.State == StateAbortion || !in.BirthMode.Valid() {
			return View{}, fmt.Errorf("%w: birth mode %q", ErrInvalidCorrection, *in.BirthMode)
		}
		g.BirthMode = *in.BirthMode
	}
	dateMoved := false
	if in.EventDate != nil {
		if in.EventDate.IsZero() {
			return View{}, fmt.Errorf("%w: event date required", ErrInvalidCorrection)
		}
		ev := *in.EventDate
		dateMoved = g.EventDate == nil || !g.EventDate.Equal(ev)
		g.EventDate = &ev
	}
	if in.ComplicationNotes != nil {
		g.ComplicationNotes = strings.TrimSpace(*in.ComplicationNotes)
	}

	now := s.now()
	g.UpdatedAt = now

	// La fecha de nacimiento de las crías es la fecha del parto.
	var kids []animals.Animal
	if dateMoved && len(g.Offspring) > 0 {
		kids, err = s.offspringToResync(ctx, g, now)
		if err != nil {
			return View{}, err
		}
	}

	write := func(ctx context.Context) error {
		if err := s.repo.SaveCorrection(ctx, g); err != nil {
			return err
		}
		for _, k := range kids {
			if err := s.animals.Update(ctx, k); err != nil {
				return err
			}
		}
		return nil
	}
	if s.tx != nil {
		err = s.tx.WithinTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return View{}, err
	}

	s.record(ctx, g, g.AnimalID, events.CreateInput{
		Type:       events.TypeOutcomeCorrected,
		OccurredAt: now,
		Title:      "Resultado corregido: " + string(g.State),
		Notes:      g.ComplicationNotes,
	})
	return viewAt(g, now), nil
}

// offspringToResync busca las crías registradas por el parto y les mueve la
// fecha de nacimiento. Se salta aretes que ya no existen o que hoy son de otro
// animal (madre distinta).
func (s *Service) offspringToResync(ctx context.Context, g Gestation, now time.Time) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0, len(g.Offspring))
	for _, o := range g.Offspring {
		a, err := s.animals.FindByTag(ctx, g.OwnerID, o.Tag)
		if errors.Is(err, animals.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if a.MotherTag != g.AnimalTag {
			continue
		}
		birth := *g.EventDate
		a.BirthDate = &birth
		a.UpdatedAt = now
		out = append(out, a)
	}
	return out, nil
}
