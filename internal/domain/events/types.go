package events

type EventType string

const (
	TypeAnimalRegistered  EventType = "ANIMAL_REGISTERED"
	TypeAnimalDeactivated EventType = "ANIMAL_DEACTIVATED"
	TypeGestationOpened   EventType = "GESTATION_OPENED"
	TypeGestationClosed   EventType = "GESTATION_CLOSED"
	TypeBirthRegistered   EventType = "BIRTH_REGISTERED"
	TypeOutcomeCorrected  EventType = "OUTCOME_CORRECTED"
	TypeNote              EventType = "NOTE"
)

// manualTypes son los tipos que un usuario puede crear por API.
var manualTypes = map[EventType]struct{}{
	TypeNote: {},
}

type ActorType string

const (
	ActorTypeOwnerUser ActorType = "OWNER_USER"
	ActorTypeSystem    ActorType = "SYSTEM"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceSystem Source = "system"
)

type EventStatus string

const (
	EventStatusActive EventStatus = "active"
	EventStatusVoided EventStatus = "voided"
)
