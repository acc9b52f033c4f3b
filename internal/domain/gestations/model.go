package gestations

import (
	"time"

	"estancia-digital/internal/domain/animals"
)

// State es el estado del ciclo de vida de una gestación.
// @Enum ongoing, successful_birth, abortion, difficult_birth, complications
type State string

const (
	StateOngoing         State = "ongoing"
	StateSuccessfulBirth State = "successful_birth"
	StateAbortion        State = "abortion"
	StateDifficultBirth  State = "difficult_birth"
	StateComplications   State = "complications"
)

func (s State) Valid() bool {
	switch s {
	case StateOngoing, StateSuccessfulBirth, StateAbortion, StateDifficultBirth, StateComplications:
		return true
	default:
		return false
	}
}

// Terminal indica un estado cerrado; no vuelve a ongoing.
func (s State) Terminal() bool {
	return s.Valid() && s != StateOngoing
}

// ServiceType es el tipo de servicio (monta, inseminación, transferencia).
type ServiceType string

const (
	ServiceNaturalMount           ServiceType = "natural_mount"
	ServiceArtificialInsemination ServiceType = "artificial_insemination"
	ServiceEmbryoTransfer         ServiceType = "embryo_transfer"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceNaturalMount, ServiceArtificialInsemination, ServiceEmbryoTransfer:
		return true
	default:
		return false
	}
}

type BirthMode string

const (
	BirthNormal   BirthMode = "normal"
	BirthCesarean BirthMode = "cesarean"
	BirthAssisted BirthMode = "assisted"
)

func (m BirthMode) Valid() bool {
	return m == BirthNormal || m == BirthCesarean || m == BirthAssisted
}

// OutcomeKind es el resultado que registra el usuario al cerrar la gestación.
type OutcomeKind string

const (
	OutcomeBirth          OutcomeKind = "birth"
	OutcomeDifficultBirth OutcomeKind = "difficult_birth"
	OutcomeComplications  OutcomeKind = "complications"
	OutcomeAbortion       OutcomeKind = "abortion"
)

// OffspringEntry es transitorio: solo sirve para crear el animal de la cría.
type OffspringEntry struct {
	Tag         string
	Sex         animals.Sex
	BirthWeight float64 // kg
	Notes       string
}

type Gestation struct {
	ID      string
	OwnerID string

	// Madre (id + datos denormalizados para mostrar)
	AnimalID   string
	AnimalTag  string
	AnimalName string

	// Líneas base. Prioridad: confirmación > servicio > creación.
	ConfirmationDate *time.Time
	ConfirmedDays    *int
	ServiceDate      *time.Time

	ServiceType ServiceType
	SireID      string
	SemenBatch  string

	DietNotes           string
	Medications         []string
	Restrictions        []string
	RecommendedExercise string
	InitialWeight       *float64
	CurrentWeight       *float64

	State  State
	Active bool

	// Solo al cerrar
	EventDate         *time.Time
	BirthMode         BirthMode
	ComplicationNotes string
	Offspring         []OffspringEntry

	// DueDate se guarda para ordenar; siempre es línea base + 283 días.
	DueDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// Baseline indica de dónde salió la fecha de referencia.
type Baseline string

const (
	BaselineConfirmation Baseline = "confirmation"
	BaselineService      Baseline = "service"
	BaselineCreation     Baseline = "creation"
)

// Stage son las cifras derivadas. Nunca se persisten (salvo DueDate).
type Stage struct {
	Baseline      Baseline
	BaselineDate  time.Time
	CurrentDay    int
	Trimester     int
	DueDate       time.Time
	RemainingDays int
	Overdue       bool
	ComputedAt    time.Time
}

// View es una gestación con su etapa calculada en un mismo instante.
type View struct {
	Gestation
	Stage Stage
}
