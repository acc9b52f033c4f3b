package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"estancia-digital/internal/domain/events"
)

type EventsRepo struct {
	db *DB
}

func NewEventsRepo(db *DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, owner_id, animal_id,
	type, occurred_at, recorded_at,
	title, notes, gestation_id,
	actor_type, actor_id,
	source, status`

func (r *EventsRepo) Create(ctx context.Context, e events.AnimalEvent) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO animal_events (`+eventColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		e.ID,
		e.OwnerID,
		e.AnimalID,
		string(e.Type),
		e.OccurredAt.UTC(),
		e.RecordedAt.UTC(),
		e.Title,
		e.Notes,
		e.GestationID,
		string(e.Actor.Type),
		e.Actor.ID,
		string(e.Source),
		string(e.Status),
	)
	return mapErr(err)
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.AnimalEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.AnimalEvent{}, events.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+eventColumns+` FROM animal_events WHERE id = $1`, id)
	return scanEvent(row)
}

func (r *EventsRepo) ListByAnimal(ctx context.Context, animalID string, filter events.ListFilter) ([]events.AnimalEvent, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM animal_events WHERE animal_id = $1`)

	args := []any{animalID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.GestationID != "" {
		sb.WriteString(fmt.Sprintf(" AND gestation_id = $%d", argN))
		args = append(args, filter.GestationID)
		argN++
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, filter.From.UTC())
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, filter.To.UTC())
		argN++
	}

	sb.WriteString(" ORDER BY occurred_at DESC, recorded_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, filter.EffectiveLimit())

	rows, err := r.db.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]events.AnimalEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

func (r *EventsRepo) Void(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.ErrNotFound
	}

	res, err := r.db.exec(ctx, `UPDATE animal_events SET status = $2 WHERE id = $1`, id, string(events.EventStatusVoided))
	if err != nil {
		return mapErr(err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func scanEvent(row rowScanner) (events.AnimalEvent, error) {
	var e events.AnimalEvent
	var typ, actorType, source, status string
	if err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.AnimalID,
		&typ,
		&e.OccurredAt,
		&e.RecordedAt,
		&e.Title,
		&e.Notes,
		&e.GestationID,
		&actorType,
		&e.Actor.ID,
		&source,
		&status,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return events.AnimalEvent{}, events.ErrNotFound
		}
		return events.AnimalEvent{}, mapErr(err)
	}

	e.Type = events.EventType(typ)
	e.Actor.Type = events.ActorType(actorType)
	e.Source = events.Source(source)
	e.Status = events.EventStatus(status)
	return e, nil
}
