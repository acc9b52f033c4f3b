package gestations

import (
	"context"
	"errors"
	"strings"
)

// AssertCreatable falla si el animal ya tiene una gestación activa.
// Es un chequeo rápido; la garantía real la da Repository.Create.
func (s *Service) AssertCreatable(ctx context.Context, ownerID, animalID string) error {
	ownerID = strings.TrimSpace(ownerID)
	animalID = strings.TrimSpace(animalID)
	if ownerID == "" || animalID == "" {
		return ErrInvalidInput
	}

	_, err := s.repo.FindActiveByAnimal(ctx, ownerID, animalID)
	switch {
	case err == nil:
		return ErrDuplicateActiveGestation
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}
