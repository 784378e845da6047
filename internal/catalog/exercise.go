package catalog

import (
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
)

var ErrExerciseNotFound = fmt.Errorf("exercise %w", apperr.ErrNotFound)

type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentMachine    Equipment = "machine"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentCable      Equipment = "cable"
	EquipmentBodyweight Equipment = "bodyweight"
)

func (e Equipment) IsValid() bool {
	switch e {
	case EquipmentBarbell,
		EquipmentDumbbell,
		EquipmentMachine,
		EquipmentKettlebell,
		EquipmentCable,
		EquipmentBodyweight:
		return true
	default:
		return false
	}
}

// LoadingMode tells how the displayed weight maps to the implement:
// bar (total incl. bar), pair (per dumbbell) or single.
type LoadingMode string

const (
	LoadingModeBar    LoadingMode = "bar"
	LoadingModePair   LoadingMode = "pair"
	LoadingModeSingle LoadingMode = "single"
)

func (m LoadingMode) IsValid() bool {
	switch m {
	case LoadingModeBar, LoadingModePair, LoadingModeSingle:
		return true
	default:
		return false
	}
}

type Unit string

const (
	UnitKg  Unit = "kg"
	UnitLbs Unit = "lbs"
)

func (u Unit) IsValid() bool {
	return u == UnitKg || u == UnitLbs
}

// Exercise is a catalog entry. The workout core only reads it.
type Exercise struct {
	ID                   int64        `json:"id"`
	Name                 string       `json:"name"`
	BodyPart             string       `json:"bodyPart"`
	IsWeighted           bool         `json:"isWeighted"`
	Equipment            *Equipment   `json:"equipment,omitempty"`
	LoadingMode          *LoadingMode `json:"loadingMode,omitempty"`
	RoundingIncrementKg  *float64     `json:"roundingIncrementKg,omitempty"`
	RoundingIncrementLbs *float64     `json:"roundingIncrementLbs,omitempty"`
	Description          string       `json:"description,omitempty"`
	GifURL               string       `json:"gifUrl,omitempty"`
	CreatedAt            time.Time    `json:"createdAt"`
}

func (e Exercise) Validate() error {
	if e.Name == "" {
		return apperr.Invalid("name", "empty")
	}
	if e.BodyPart == "" {
		return apperr.Invalid("bodyPart", "empty")
	}
	if e.Equipment != nil && !e.Equipment.IsValid() {
		return apperr.Invalid("equipment", "unknown equipment %q", *e.Equipment)
	}
	if e.LoadingMode != nil && !e.LoadingMode.IsValid() {
		return apperr.Invalid("loadingMode", "unknown loading mode %q", *e.LoadingMode)
	}
	return nil
}
