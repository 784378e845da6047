// Package history answers the read-side questions of the workout core:
// the latest assessment, the last lifted weight and the stored progression
// profile per exercise.
package history

import (
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
)

type AssessmentType string

const (
	AssessmentTypeOneRepMax AssessmentType = "1rm"
	AssessmentTypeWorking   AssessmentType = "working"
)

func (t AssessmentType) IsValid() bool {
	return t == AssessmentTypeOneRepMax || t == AssessmentTypeWorking
}

// Assessment is an append-only strength data point.
type Assessment struct {
	ID         int64          `json:"id"`
	UserID     *int64         `json:"userId,omitempty"`
	AnonKey    string         `json:"anonKey,omitempty"`
	ExerciseID int64          `json:"exerciseId"`
	Type       AssessmentType `json:"type"`
	Value      float64        `json:"value"`
	Unit       catalog.Unit   `json:"unit"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type NewAssessment struct {
	ExerciseID int64          `json:"exerciseId"`
	Type       AssessmentType `json:"type"`
	Value      float64        `json:"value"`
	Unit       catalog.Unit   `json:"unit"`
}

func (a NewAssessment) Validate() error {
	if a.ExerciseID <= 0 {
		return apperr.Invalid("exerciseId", "must be positive")
	}
	if !a.Type.IsValid() {
		return apperr.Invalid("type", "unknown assessment type %q", a.Type)
	}
	if a.Value <= 0 {
		return apperr.Invalid("value", "must be positive")
	}
	if !a.Unit.IsValid() {
		return apperr.Invalid("unit", "unknown unit %q", a.Unit)
	}
	return nil
}

// AssessmentFilter selects by user when UserID is set, else by anonymous key.
type AssessmentFilter struct {
	UserID      *int64
	AnonKey     string
	ExerciseIDs []int64
}
