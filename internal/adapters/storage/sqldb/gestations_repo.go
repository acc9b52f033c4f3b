package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"estancia-digital/internal/domain/animals"
	"estancia-digital/internal/domain/gestations"
)

type GestationsRepo struct {
	db *DB
}

func NewGestationsRepo(db *DB) *GestationsRepo {
	return &GestationsRepo{db: db}
}

const gestationColumns = `
	id, owner_id,
	animal_id, animal_tag, animal_name,
	confirmation_date, confirmed_days, service_date,
	service_type, sire_id, semen_batch,
	diet_notes, medications, restrictions, recommended_exercise,
	initial_weight, current_weight,
	state, active,
	event_date, birth_mode, complication_notes, offspring,
	due_date, created_at, updated_at, closed_at`

// offspringRow es el formato JSON de las crías en la columna offspring.
type offspringRow struct {
	Tag         string  `json:"tag"`
	Sex         string  `json:"sex"`
	BirthWeight float64 `json:"birth_weight"`
	Notes       string  `json:"notes,omitempty"`
}

func (r *GestationsRepo) Create(ctx context.Context, g gestations.Gestation) error {
	args, err := gestationArgs(g)
	if err != nil {
		return err
	}

	_, err = r.db.exec(ctx, `
		INSERT INTO gestations (`+gestationColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
	`, args...)
	if err != nil {
		// el índice único parcial (owner_id, animal_id) WHERE active
		if isUniqueViolation(err) {
			return gestations.ErrDuplicateActiveGestation
		}
		return mapErr(err)
	}
	return nil
}

func (r *GestationsRepo) GetByID(ctx context.Context, id string) (gestations.Gestation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return gestations.Gestation{}, gestations.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+gestationColumns+` FROM gestations WHERE id = $1`, id)
	return scanGestation(row)
}

func (r *GestationsRepo) FindActiveByAnimal(ctx context.Context, ownerID, animalID string) (gestations.Gestation, error) {
	row := r.db.queryRow(ctx, `
		SELECT `+gestationColumns+`
		FROM gestations
		WHERE owner_id = $1 AND animal_id = $2 AND active = $3
	`, ownerID, animalID, true)
	return scanGestation(row)
}

func (r *GestationsRepo) ListActive(ctx context.Context, ownerID string) ([]gestations.Gestation, error) {
	return r.list(ctx, `
		SELECT `+gestationColumns+`
		FROM gestations
		WHERE owner_id = $1 AND active = $2
		ORDER BY due_date
	`, ownerID, true)
}

func (r *GestationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]gestations.Gestation, error) {
	return r.list(ctx, `
		SELECT `+gestationColumns+`
		FROM gestations
		WHERE owner_id = $1
		ORDER BY due_date
	`, ownerID)
}

func (r *GestationsRepo) Update(ctx context.Context, g gestations.Gestation) error {
	return r.write(ctx, g, true)
}

// Close es condicional sobre active: si otra escritura cerró antes, no pisa nada.
func (r *GestationsRepo) Close(ctx context.Context, g gestations.Gestation) error {
	return r.write(ctx, g, true)
}

func (r *GestationsRepo) SaveCorrection(ctx context.Context, g gestations.Gestation) error {
	return r.write(ctx, g, false)
}

// write reescribe el registro solo si su active actual coincide con wantActive.
func (r *GestationsRepo) write(ctx context.Context, g gestations.Gestation, wantActive bool) error {
	all, err := gestationArgs(g)
	if err != nil {
		return err
	}
	args := make([]any, 0, 23)
	args = append(args, all[0])
	args = append(args, all[5:24]...)
	args = append(args, all[25], all[26], wantActive)

	res, err := r.db.exec(ctx, `
		UPDATE gestations SET
			confirmation_date = $2, confirmed_days = $3, service_date = $4,
			service_type = $5, sire_id = $6, semen_batch = $7,
			diet_notes = $8, medications = $9, restrictions = $10, recommended_exercise = $11,
			initial_weight = $12, current_weight = $13,
			state = $14, active = $15,
			event_date = $16, birth_mode = $17, complication_notes = $18, offspring = $19,
			due_date = $20, updated_at = $21, closed_at = $22
		WHERE id = $1 AND active = $23
	`, args...)
	if err != nil {
		return mapErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n > 0 {
		return nil
	}

	// Sin filas: o no existe o su estado no permite la escritura.
	cur, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	if wantActive && !cur.Active {
		return gestations.ErrAlreadyClosed
	}
	if !wantActive && cur.Active {
		return gestations.ErrInvalidCorrection
	}
	return gestations.ErrNotFound
}

func (r *GestationsRepo) list(ctx context.Context, query string, args ...any) ([]gestations.Gestation, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]gestations.Gestation, 0)
	for rows.Next() {
		g, err := scanGestation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, mapErr(rows.Err())
}

func gestationArgs(g gestations.Gestation) ([]any, error) {
	meds, err := encodeStrings(g.Medications)
	if err != nil {
		return nil, err
	}
	restr, err := encodeStrings(g.Restrictions)
	if err != nil {
		return nil, err
	}
	kids := make([]offspringRow, 0, len(g.Offspring))
	for _, o := range g.Offspring {
		kids = append(kids, offspringRow{Tag: o.Tag, Sex: string(o.Sex), BirthWeight: o.BirthWeight, Notes: o.Notes})
	}
	offspring, err := json.Marshal(kids)
	if err != nil {
		return nil, err
	}

	return []any{
		g.ID,
		g.OwnerID,
		g.AnimalID,
		g.AnimalTag,
		g.AnimalName,
		toNullTime(g.ConfirmationDate),
		toNullInt(g.ConfirmedDays),
		toNullTime(g.ServiceDate),
		string(g.ServiceType),
		g.SireID,
		g.SemenBatch,
		g.DietNotes,
		meds,
		restr,
		g.RecommendedExercise,
		toNullFloat(g.InitialWeight),
		toNullFloat(g.CurrentWeight),
		string(g.State),
		g.Active,
		toNullTime(g.EventDate),
		string(g.BirthMode),
		g.ComplicationNotes,
		string(offspring),
		g.DueDate.UTC(),
		g.CreatedAt.UTC(),
		g.UpdatedAt.UTC(),
		toNullTime(g.ClosedAt),
	}, nil
}

func scanGestation(row rowScanner) (gestations.Gestation, error) {
	var (
		g                                      gestations.Gestation
		serviceType, state, birthMode          string
		meds, restr, offspring                 string
		confirmation, service, event, closedAt sql.NullTime
		confirmedDays                          sql.NullInt64
		initialWeight, currentWeight           sql.NullFloat64
	)
	if err := row.Scan(
		&g.ID,
		&g.OwnerID,
		&g.AnimalID,
		&g.AnimalTag,
		&g.AnimalName,
		&confirmation,
		&confirmedDays,
		&service,
		&serviceType,
		&g.SireID,
		&g.SemenBatch,
		&g.DietNotes,
		&meds,
		&restr,
		&g.RecommendedExercise,
		&initialWeight,
		&currentWeight,
		&state,
		&g.Active,
		&event,
		&birthMode,
		&g.ComplicationNotes,
		&offspring,
		&g.DueDate,
		&g.CreatedAt,
		&g.UpdatedAt,
		&closedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return gestations.Gestation{}, gestations.ErrNotFound
		}
		return gestations.Gestation{}, mapErr(err)
	}

	g.ServiceType = gestations.ServiceType(serviceType)
	g.State = gestations.State(state)
	g.BirthMode = gestations.BirthMode(birthMode)
	g.ConfirmationDate = fromNullTime(confirmation)
	g.ConfirmedDays = fromNullInt(confirmedDays)
	g.ServiceDate = fromNullTime(service)
	g.EventDate = fromNullTime(event)
	g.ClosedAt = fromNullTime(closedAt)
	g.InitialWeight = fromNullFloat(initialWeight)
	g.CurrentWeight = fromNullFloat(currentWeight)

	var err error
	if g.Medications, err = decodeStrings(meds); err != nil {
		return gestations.Gestation{}, err
	}
	if g.Restrictions, err = decodeStrings(restr); err != nil {
		return gestations.Gestation{}, err
	}

	var kids []offspringRow
	if offspring != "" {
		if err := json.Unmarshal([]byte(offspring), &kids); err != nil {
			return gestations.Gestation{}, err
		}
	}
	for _, k := range kids {
		g.Offspring = append(g.Offspring, gestations.OffspringEntry{
			Tag:         k.Tag,
			Sex:         animals.Sex(k.Sex),
			BirthWeight: k.BirthWeight,
			Notes:       k.Notes,
		})
	}

	return g, nil
}

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
