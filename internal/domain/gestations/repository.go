package gestations

import (
	"context"

	"estancia-digital/internal/domain/animals"
)

// Repository persiste gestaciones. Los adapters devuelven los errores de este paquete.
type Repository interface {
	// Create es atómico: falla con ErrDuplicateActiveGestation si ya hay
	// una gestación activa para (owner, animal).
	Create(ctx context.Context, g Gestation) error
	GetByID(ctx context.Context, id string) (Gestation, error)
	FindActiveByAnimal(ctx context.Context, ownerID, animalID string) (Gestation, error)
	ListActive(ctx context.Context, ownerID string) ([]Gestation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Gestation, error)

	// Update solo toca registros activos (ErrAlreadyClosed si no).
	Update(ctx context.Context, g Gestation) error

	// Close escribe el estado terminal solo si el registro sigue activo.
	Close(ctx context.Context, g Gestation) error

	// SaveCorrection solo aplica sobre registros cerrados.
	SaveCorrection(ctx context.Context, g Gestation) error
}

// Registry es lo que necesitamos del registro de animales.
// animals.Repository lo implementa.
type Registry interface {
	Create(ctx context.Context, a animals.Animal) error
	GetByID(ctx context.Context, id string) (animals.Animal, error)
	FindByTag(ctx context.Context, ownerID, tag string) (animals.Animal, error)
	Update(ctx context.Context, a animals.Animal) error
	Delete(ctx context.Context, id string) error
}
