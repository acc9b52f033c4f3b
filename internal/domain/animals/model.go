package animals

import "time"

// Sex define el sexo del animal.
// @Enum female, male
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

func (s Sex) Valid() bool {
	return s == SexFemale || s == SexMale
}

// InactiveReason registra por qué un animal salió del hato.
type InactiveReason string

const (
	InactiveSold InactiveReason = "sold"
	InactiveDead InactiveReason = "dead"
)

// Valores por defecto para crías registradas desde un parto.
const (
	DefaultOffspringBreed              = "unspecified"
	DefaultOffspringLocation           = "nursery pen"
	DefaultOffspringReproductiveStatus = "not yet cycling"
)

// Animal es un integrante del hato. FatherTag/MotherTag son referencias débiles
// por arete (tag): se resuelven con FindByTag, no son foreign keys.
type Animal struct {
	ID      string
	OwnerID string

	Tag  string // único por owner
	Name string
	Sex  Sex

	BirthDate *time.Time
	Breed     string
	Traits    string

	ReproductiveStatus string
	Location           string
	BodyCondition      *float64
	HealthStatus       string
	Weight             *float64 // kg

	FatherTag string
	MotherTag string

	Notes string

	Active         bool
	InactiveReason InactiveReason
	InactiveAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genealogy agrupa padres resueltos por arete y crías registradas.
type Genealogy struct {
	Animal    Animal
	Father    *Animal
	Mother    *Animal
	Offspring []Animal
}
