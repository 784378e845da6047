// Package templates holds the authored workout plans sessions are started
// from, and the structural rules a plan must satisfy before it is stored.
package templates

import (
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
)

var ErrTemplateNotFound = fmt.Errorf("template %w", apperr.ErrNotFound)

type SetSpec struct {
	Reps             int      `json:"reps"`
	WeightPercentage *float64 `json:"weightPercentage,omitempty"`
	RestSec          *int     `json:"restSec,omitempty"`
	// Weight is the authored default, used when nothing better is known
	// at session start.
	Weight *float64 `json:"weight,omitempty"`
}

type Item struct {
	ExerciseID int64     `json:"exerciseId"`
	Order      int       `json:"order"`
	Sets       []SetSpec `json:"sets"`
	GroupID    string    `json:"groupId,omitempty"`
	GroupOrder *int      `json:"groupOrder,omitempty"`
}

type Template struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	BodyPart    string       `json:"bodyPart"`
	Variation   string       `json:"variation,omitempty"`
	DefaultUnit catalog.Unit `json:"defaultUnit,omitempty"`
	Items       []Item       `json:"items"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (t Template) ExerciseIDs() []int64 {
	seen := make(map[int64]bool, len(t.Items))
	ids := make([]int64, 0, len(t.Items))
	for _, item := range t.Items {
		if seen[item.ExerciseID] {
			continue
		}
		seen[item.ExerciseID] = true
		ids = append(ids, item.ExerciseID)
	}
	return ids
}

// Update lists the template fields a partial update may overwrite.
// Nil fields are left untouched; a non-nil Items replaces the whole list.
type Update struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	BodyPart    *string       `json:"bodyPart,omitempty"`
	Variation   *string       `json:"variation,omitempty"`
	DefaultUnit *catalog.Unit `json:"defaultUnit,omitempty"`
	Items       []Item        `json:"items,omitempty"`
}

func (u Update) IsEmpty() bool {
	return u.Name == nil &&
		u.Description == nil &&
		u.BodyPart == nil &&
		u.Variation == nil &&
		u.DefaultUnit == nil &&
		u.Items == nil
}

// ApplyTo returns a copy of t with the update merged in.
func (u Update) ApplyTo(t Template) Template {
	merged := t
	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.BodyPart != nil {
		merged.BodyPart = *u.BodyPart
	}
	if u.Variation != nil {
		merged.Variation = *u.Variation
	}
	if u.DefaultUnit != nil {
		merged.DefaultUnit = *u.DefaultUnit
	}
	if u.Items != nil {
		merged.Items = append([]Item(nil), u.Items...)
	}
	return merged
}
