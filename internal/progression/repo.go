package progression

import (
	"context"
	"fmt"

	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const profileColumns = `user_id, exercise_id, category_key, last_completed_weight_kg,
	last_rir, next_planned_weight_kg, last_updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, key Key) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user.id", key.UserID),
		attribute.Int64("exercise.id", key.ExerciseID),
	)

	row := r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM progression_profile
		WHERE user_id = $1 AND exercise_id = $2
	`, key.UserID, key.ExerciseID)
	profile, err := scanProfile(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// GetForExercises returns the user's profiles keyed by exercise id,
// exercises without a profile are omitted.
func (r *Repo) GetForExercises(ctx context.Context, userID int64, exerciseIDs []int64) (_ map[int64]Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.getforexercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int("exercises.count", len(exerciseIDs)),
	)

	profiles := make(map[int64]Profile, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return profiles, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM progression_profile
		WHERE user_id = $1 AND exercise_id = ANY($2)
	`, userID, exerciseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[profile.ExerciseID] = *profile
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Upsert locks the profile row (if any), applies update to it, or to a fresh
// profile for key, and writes the result back in one transaction.
func (r *Repo) Upsert(ctx context.Context, key Key, update func(*Profile)) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("user.id", key.UserID),
		attribute.Int64("exercise.id", key.ExerciseID),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM progression_profile
		WHERE user_id = $1 AND exercise_id = $2
		FOR UPDATE
	`, key.UserID, key.ExerciseID)
	profile, err := scanProfile(row)
	if pkg.IsNoRowsError(err) {
		profile = &Profile{UserID: key.UserID, ExerciseID: key.ExerciseID}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	update(profile)
	profile.UserID = key.UserID
	profile.ExerciseID = key.ExerciseID

	_, err = tx.Exec(ctx, `
		INSERT INTO progression_profile (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, exercise_id) DO UPDATE SET
			category_key = EXCLUDED.category_key,
			last_completed_weight_kg = EXCLUDED.last_completed_weight_kg,
			last_rir = EXCLUDED.last_rir,
			next_planned_weight_kg = EXCLUDED.next_planned_weight_kg,
			last_updated_at = EXCLUDED.last_updated_at
	`,
		profile.UserID,
		profile.ExerciseID,
		profile.CategoryKey,
		profile.LastCompletedWeightKg,
		profile.LastRIR,
		profile.NextPlannedWeightKg,
		profile.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(
		&p.UserID,
		&p.ExerciseID,
		&p.CategoryKey,
		&p.LastCompletedWeightKg,
		&p.LastRIR,
		&p.NextPlannedWeightKg,
		&p.LastUpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
