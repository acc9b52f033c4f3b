package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"estancia-digital/internal/domain/animals"
)

type AnimalsRepo struct {
	db *DB
}

func NewAnimalsRepo(db *DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, owner_id,
	tag, name, sex,
	birth_date, breed, traits,
	reproductive_status, location, body_condition, health_status, weight,
	father_tag, mother_tag,
	notes,
	active, inactive_reason, inactive_at,
	created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO animals (`+animalColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		a.ID,
		a.OwnerID,
		a.Tag,
		a.Name,
		string(a.Sex),
		toNullTime(a.BirthDate),
		a.Breed,
		a.Traits,
		a.ReproductiveStatus,
		a.Location,
		toNullFloat(a.BodyCondition),
		a.HealthStatus,
		toNullFloat(a.Weight),
		a.FatherTag,
		a.MotherTag,
		a.Notes,
		a.Active,
		string(a.InactiveReason),
		toNullTime(a.InactiveAt),
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return animals.ErrDuplicateTag
		}
		return mapErr(err)
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	return scanAnimal(row)
}

func (r *AnimalsRepo) FindByTag(ctx context.Context, ownerID, tag string) (animals.Animal, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE owner_id = $1 AND tag = $2`, ownerID, tag)
	return scanAnimal(row)
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerID string) ([]animals.Animal, error) {
	return r.list(ctx, `SELECT `+animalColumns+` FROM animals WHERE owner_id = $1 ORDER BY tag`, ownerID)
}

func (r *AnimalsRepo) ListByParentTag(ctx context.Context, ownerID, tag string) ([]animals.Animal, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return []animals.Animal{}, nil
	}
	return r.list(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE owner_id = $1 AND (father_tag = $2 OR mother_tag = $2)
		ORDER BY tag
	`, ownerID, tag)
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.exec(ctx, `
		UPDATE animals SET
			tag = $2, name = $3, sex = $4,
			birth_date = $5, breed = $6, traits = $7,
			reproductive_status = $8, location = $9, body_condition = $10,
			health_status = $11, weight = $12,
			father_tag = $13, mother_tag = $14,
			notes = $15,
			active = $16, inactive_reason = $17, inactive_at = $18,
			updated_at = $19
		WHERE id = $1
	`,
		a.ID,
		a.Tag,
		a.Name,
		string(a.Sex),
		toNullTime(a.BirthDate),
		a.Breed,
		a.Traits,
		a.ReproductiveStatus,
		a.Location,
		toNullFloat(a.BodyCondition),
		a.HealthStatus,
		toNullFloat(a.Weight),
		a.FatherTag,
		a.MotherTag,
		a.Notes,
		a.Active,
		string(a.InactiveReason),
		toNullTime(a.InactiveAt),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return animals.ErrDuplicateTag
		}
		return mapErr(err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
	return mapErr(err)
}

func (r *AnimalsRepo) list(ctx context.Context, query string, args ...any) ([]animals.Animal, error) {
	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, mapErr(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var (
		a                     animals.Animal
		sex, reason           string
		birth, inactiveAt     sql.NullTime
		bodyCondition, weight sql.NullFloat64
	)
	if err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Tag,
		&a.Name,
		&sex,
		&birth,
		&a.Breed,
		&a.Traits,
		&a.ReproductiveStatus,
		&a.Location,
		&bodyCondition,
		&a.HealthStatus,
		&weight,
		&a.FatherTag,
		&a.MotherTag,
		&a.Notes,
		&a.Active,
		&reason,
		&inactiveAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, mapErr(err)
	}

	a.Sex = animals.Sex(sex)
	a.InactiveReason = animals.InactiveReason(reason)
	a.BirthDate = fromNullTime(birth)
	a.InactiveAt = fromNullTime(inactiveAt)
	a.BodyCondition = fromNullFloat(bodyCondition)
	a.Weight = fromNullFloat(weight)
	return a, nil
}
