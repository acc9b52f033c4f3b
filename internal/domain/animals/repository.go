package animals

import "context"

type Repository interface {
	// Create falla con ErrDuplicateTag si el arete ya existe para el owner.
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	FindByTag(ctx context.Context, ownerID, tag string) (Animal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Animal, error)
	ListByParentTag(ctx context.Context, ownerID, tag string) ([]Animal, error)
	Update(ctx context.Context, a Animal) error

	// Delete solo se usa como compensación de un alta fallida.
	Delete(ctx context.Context, id string) error
}
