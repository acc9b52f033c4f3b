package events

import "time"

type Actor struct {
	Type ActorType
	ID   string
}

// AnimalEvent es una entrada de la bitácora de un animal.
type AnimalEvent struct {
	ID       string
	OwnerID  string
	AnimalID string

	Type EventType

	OccurredAt time.Time
	RecordedAt time.Time

	Title string
	Notes string

	// GestationID vincula eventos de gestación/parto (opcional).
	GestationID string

	Actor  Actor
	Source Source
	Status EventStatus
}
