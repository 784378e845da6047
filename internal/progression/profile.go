package progression

import (
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
)

var ErrProfileNotFound = fmt.Errorf("progression profile %w", apperr.ErrNotFound)

type Key struct {
	UserID     int64
	ExerciseID int64
}

type Profile struct {
	UserID                int64     `json:"userId"`
	ExerciseID            int64     `json:"exerciseId"`
	CategoryKey           string    `json:"categoryKey,omitempty"`
	LastCompletedWeightKg *float64  `json:"lastCompletedWeightKg,omitempty"`
	LastRIR               *float64  `json:"lastRir,omitempty"`
	NextPlannedWeightKg   *float64  `json:"nextPlannedWeightKg,omitempty"`
	LastUpdatedAt         time.Time `json:"lastUpdatedAt"`
}

func (p Profile) Key() Key {
	return Key{UserID: p.UserID, ExerciseID: p.ExerciseID}
}

// RecordEffort returns an updater storing the last performance and the
// weight suggested for the next session.
func RecordEffort(lastCompletedWeight, rir float64, now time.Time) func(*Profile) {
	return func(p *Profile) {
		next := NextWeight(lastCompletedWeight, rir)
		p.LastCompletedWeightKg = &lastCompletedWeight
		p.LastRIR = &rir
		p.NextPlannedWeightKg = &next
		p.LastUpdatedAt = now
	}
}
