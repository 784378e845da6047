package templates

import (
	"context"
	"fmt"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// absentGroupOrder stands in for a missing groupOrder; two items of the
// same group without one collide like any other equal pair.
const absentGroupOrder = -1

type exerciseResolver interface {
	GetMultiple(ctx context.Context, ids []int64) (map[int64]catalog.Exercise, error)
}

type Validator struct {
	exercises exerciseResolver
}

func NewValidator(exercises exerciseResolver) *Validator {
	return &Validator{
		exercises: exercises,
	}
}

// Validate checks the structural rules first and only then resolves the
// referenced exercises against the catalog, in a single lookup.
func (v *Validator) Validate(ctx context.Context, t Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.validator.validate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("items.count", len(t.Items)))

	if err := validateStructure(t); err != nil {
		return err
	}

	ids := t.ExerciseIDs()
	found, err := v.exercises.GetMultiple(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve template exercises: %w", err)
	}
	for i, item := range t.Items {
		if _, ok := found[item.ExerciseID]; !ok {
			return apperr.Invalid(fmt.Sprintf("items[%d].exerciseId", i), "exercise %d not found", item.ExerciseID)
		}
	}

	return nil
}

type groupSlot struct {
	groupID    string
	groupOrder int
}

func validateStructure(t Template) error {
	if t.Name == "" {
		return apperr.Invalid("name", "empty")
	}
	if t.BodyPart == "" {
		return apperr.Invalid("bodyPart", "empty")
	}
	if t.DefaultUnit != "" && !t.DefaultUnit.IsValid() {
		return apperr.Invalid("defaultUnit", "unknown unit %q", t.DefaultUnit)
	}
	if len(t.Items) == 0 {
		return apperr.Invalid("items", "empty")
	}

	orders := make(map[int]bool, len(t.Items))
	groupSlots := make(map[groupSlot]bool)
	for i, item := range t.Items {
		field := fmt.Sprintf("items[%d]", i)
		if orders[item.Order] {
			return apperr.Invalid(field+".order", "duplicate order %d", item.Order)
		}
		orders[item.Order] = true

		if len(item.Sets) == 0 {
			return apperr.Invalid(field+".sets", "no sets")
		}
		for j, set := range item.Sets {
			if set.Reps <= 0 {
				return apperr.Invalid(fmt.Sprintf("%s.sets[%d].reps", field, j), "must be positive, got %d", set.Reps)
			}
		}

		if item.GroupID == "" {
			continue
		}
		slot := groupSlot{groupID: item.GroupID, groupOrder: absentGroupOrder}
		if item.GroupOrder != nil {
			slot.groupOrder = *item.GroupOrder
		}
		if groupSlots[slot] {
			return apperr.Invalid(field+".groupOrder", "duplicate order within group %q", item.GroupID)
		}
		groupSlots[slot] = true
	}

	return nil
}
