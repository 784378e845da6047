//go:build integration_test || all_tests

package sessions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/repcoach/internal/db"
	"github.com/2beens/repcoach/internal/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreSetup(t *testing.T) (*Store, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	params := db.NewDBPoolParams{
		DBHost: host,
		DBPort: "5432",
		DBName: "repcoach",
		DBUser: "postgres",
	}
	require.NoError(t, db.RunMigrations(params, "../../migrations"))

	dbPool, err := db.NewDBPool(timeoutCtx, params)
	require.NoError(t, err)

	_, err = dbPool.Exec(timeoutCtx, `DELETE FROM workout_session`)
	require.NoError(t, err)

	return NewStore(dbPool), func() {
		dbPool.Close()
	}
}

func TestStore_ReplaceIsCompareAndSwap(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	weight := 60.0
	session := Session{
		ID:        uuid.NewString(),
		AnonKey:   "phone-1",
		Status:    StatusActive,
		StartedAt: time.Now().UTC().Truncate(time.Millisecond),
		Exercises: []Exercise{
			{
				ExerciseID: 1,
				Name:       "Back Squat",
				LoadBasis:  LoadBasisExternal,
				Sets:       []Set{{Reps: 5, Weight: &weight}},
			},
		},
	}
	require.NoError(t, store.Add(ctx, session))

	loaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), loaded.Revision)
	require.Len(t, loaded.Exercises, 1)
	assert.Equal(t, 60.0, *loaded.Exercises[0].Sets[0].Weight)

	loaded.Exercises[0].Sets[0].Done = true
	require.NoError(t, store.Replace(ctx, *loaded))

	// stale revision
	err = store.Replace(ctx, *loaded)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	reloaded, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Revision)
	assert.True(t, reloaded.Exercises[0].Sets[0].Done)

	missing := *reloaded
	missing.ID = uuid.NewString()
	assert.ErrorIs(t, store.Replace(ctx, missing), ErrSessionNotFound)

	_, err = store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_ListForIdentity(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	userID := int64(42)
	now := time.Now().UTC().Truncate(time.Millisecond)

	older := Session{ID: uuid.NewString(), UserID: &userID, Status: StatusCompleted, StartedAt: now.Add(-time.Hour), Exercises: []Exercise{}}
	newer := Session{ID: uuid.NewString(), AnonKey: "phone-1", Status: StatusActive, StartedAt: now, Exercises: []Exercise{}}
	other := Session{ID: uuid.NewString(), AnonKey: "phone-2", Status: StatusActive, StartedAt: now, Exercises: []Exercise{}}
	for _, s := range []Session{older, newer, other} {
		require.NoError(t, store.Add(ctx, s))
	}

	list, err := store.ListForIdentity(ctx, identity.Scope{UserID: &userID, AnonKey: "phone-1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}
