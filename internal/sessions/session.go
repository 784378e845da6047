// Package sessions runs the workout attempt state machine: a session is
// materialized from a template, mutated set by set while active, and frozen
// once completed.
package sessions

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
)

var (
	ErrSessionNotFound  = fmt.Errorf("session %w", apperr.ErrNotFound)
	ErrExerciseNotFound = fmt.Errorf("session exercise %w", apperr.ErrNotFound)
	ErrSetNotFound      = fmt.Errorf("session set %w", apperr.ErrNotFound)
	ErrRevisionConflict = errors.New("session revision conflict")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// LoadBasis is decided once at start from the catalog's weighted flag.
type LoadBasis string

const (
	LoadBasisExternal   LoadBasis = "external"
	LoadBasisBodyweight LoadBasis = "bodyweight"
)

// Set holds the planned target and, once done, what was actually lifted.
// Completion fields stay nil while Done is false.
type Set struct {
	Reps            int        `json:"reps"`
	Weight          *float64   `json:"weight,omitempty"`
	Done            bool       `json:"done"`
	CompletedReps   *int       `json:"completedReps,omitempty"`
	CompletedWeight *float64   `json:"completedWeight,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// Exercise is a snapshot of one template item taken at session start.
type Exercise struct {
	ExerciseID  int64                `json:"exerciseId"`
	Name        string               `json:"exerciseName"`
	Equipment   *catalog.Equipment   `json:"equipment,omitempty"`
	LoadingMode *catalog.LoadingMode `json:"loadingMode,omitempty"`
	LoadBasis   LoadBasis            `json:"loadBasis"`
	Order       int                  `json:"order"`
	GroupID     string               `json:"groupId,omitempty"`
	GroupOrder  *int                 `json:"groupOrder,omitempty"`
	RestSec     *int                 `json:"restSec,omitempty"`
	RIR         *float64             `json:"rir,omitempty"`
	Sets        []Set                `json:"sets"`
}

// LastWeight scans the sets from the end and returns the first weight found,
// preferring the completed weight of a set over its planned one.
func (e Exercise) LastWeight() (float64, bool) {
	for i := len(e.Sets) - 1; i >= 0; i-- {
		set := e.Sets[i]
		if set.CompletedWeight != nil {
			return *set.CompletedWeight, true
		}
		if set.Weight != nil {
			return *set.Weight, true
		}
	}
	return 0, false
}

type Session struct {
	ID          string     `json:"id"`
	UserID      *int64     `json:"userId,omitempty"`
	AnonKey     string     `json:"anonKey,omitempty"`
	TemplateID  *int64     `json:"templateId,omitempty"`
	Status      Status     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Revision    int64      `json:"revision"`
	Exercises   []Exercise `json:"exercises"`
}

func (s *Session) exercise(idx int) (*Exercise, error) {
	if idx < 0 || idx >= len(s.Exercises) {
		return nil, fmt.Errorf("%w: index %d", ErrExerciseNotFound, idx)
	}
	return &s.Exercises[idx], nil
}

func (e *Exercise) set(idx int) (*Set, error) {
	if idx < 0 || idx >= len(e.Sets) {
		return nil, fmt.Errorf("%w: index %d", ErrSetNotFound, idx)
	}
	return &e.Sets[idx], nil
}

// Clone returns a deep copy sharing no pointers or slices with s.
func (s Session) Clone() Session {
	c := s
	c.UserID = clonePtr(s.UserID)
	c.TemplateID = clonePtr(s.TemplateID)
	c.CompletedAt = clonePtr(s.CompletedAt)
	if s.Exercises != nil {
		c.Exercises = make([]Exercise, len(s.Exercises))
		for i, ex := range s.Exercises {
			c.Exercises[i] = ex.clone()
		}
	}
	return c
}

func (e Exercise) clone() Exercise {
	c := e
	c.Equipment = clonePtr(e.Equipment)
	c.LoadingMode = clonePtr(e.LoadingMode)
	c.GroupOrder = clonePtr(e.GroupOrder)
	c.RestSec = clonePtr(e.RestSec)
	c.RIR = clonePtr(e.RIR)
	if e.Sets != nil {
		c.Sets = make([]Set, len(e.Sets))
		for i, set := range e.Sets {
			c.Sets[i] = Set{
				Reps:            set.Reps,
				Weight:          clonePtr(set.Weight),
				Done:            set.Done,
				CompletedReps:   clonePtr(set.CompletedReps),
				CompletedWeight: clonePtr(set.CompletedWeight),
				CompletedAt:     clonePtr(set.CompletedAt),
			}
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
