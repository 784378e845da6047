package catalog_test

import (
	"context"
	"testing"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedRepo_Get(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMockRepo(
		catalog.Exercise{ID: 1, Name: "Bench Press", BodyPart: "chest", IsWeighted: true},
	)
	cached := catalog.NewCachedRepo(repo, 1)

	e, err := cached.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", e.Name)
	assert.Equal(t, 1, repo.Calls())

	e, err = cached.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bench Press", e.Name)
	assert.Equal(t, 1, repo.Calls(), "second lookup must come from cache")

	_, err = cached.Get(ctx, 99)
	assert.ErrorIs(t, err, catalog.ErrExerciseNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCachedRepo_GetMultiple(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMockRepo(
		catalog.Exercise{ID: 1, Name: "Bench Press", BodyPart: "chest"},
		catalog.Exercise{ID: 2, Name: "Row", BodyPart: "back"},
		catalog.Exercise{ID: 3, Name: "Squat", BodyPart: "legs"},
	)
	cached := catalog.NewCachedRepo(repo, 1)

	_, err := cached.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, repo.Calls())

	found, err := cached.GetMultiple(ctx, []int64{1, 2, 42})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Row", found[2].Name)
	assert.NotContains(t, found, int64(42))
	assert.Equal(t, 2, repo.Calls())

	found, err = cached.GetMultiple(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, 2, repo.Calls(), "all ids cached, repo must not be hit")
}

func TestCachedRepo_ListByBodyPart(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMockRepo(
		catalog.Exercise{ID: 1, Name: "Squat", BodyPart: "legs"},
		catalog.Exercise{ID: 2, Name: "Lunge", BodyPart: "legs"},
		catalog.Exercise{ID: 3, Name: "Row", BodyPart: "back"},
	)
	cached := catalog.NewCachedRepo(repo, 1)

	legs, err := cached.ListByBodyPart(ctx, "legs")
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, "Lunge", legs[0].Name)
	assert.Equal(t, "Squat", legs[1].Name)

	all, err := cached.ListByBodyPart(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExercise_Validate(t *testing.T) {
	assert.NoError(t, catalog.Exercise{Name: "Squat", BodyPart: "legs"}.Validate())
	assert.ErrorIs(t, catalog.Exercise{BodyPart: "legs"}.Validate(), apperr.ErrValidationFailed)
	assert.ErrorIs(t, catalog.Exercise{Name: "Squat"}.Validate(), apperr.ErrValidationFailed)

	weird := catalog.Equipment("trebuchet")
	assert.ErrorIs(t, catalog.Exercise{Name: "Squat", BodyPart: "legs", Equipment: &weird}.Validate(), apperr.ErrValidationFailed)
}
