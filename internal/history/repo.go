package history

import (
	"context"

	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, assessment Assessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.assessments.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("exercise.id", assessment.ExerciseID))

	var anonKey *string
	if assessment.AnonKey != "" {
		anonKey = &assessment.AnonKey
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO assessment (user_id, anon_key, exercise_id, type, value, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		assessment.UserID,
		anonKey,
		assessment.ExerciseID,
		string(assessment.Type),
		assessment.Value,
		string(assessment.Unit),
		assessment.CreatedAt,
	).Scan(&assessment.ID)
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Latest returns the newest matching assessment per exercise; exercises
// without one are omitted.
func (r *Repo) Latest(ctx context.Context, filter AssessmentFilter) (_ map[int64]Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.assessments.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Bool("filter.user", filter.UserID != nil),
		attribute.Int("exercises.count", len(filter.ExerciseIDs)),
	)

	latest := make(map[int64]Assessment, len(filter.ExerciseIDs))
	if len(filter.ExerciseIDs) == 0 || (filter.UserID == nil && filter.AnonKey == "") {
		return latest, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (exercise_id)
			id, user_id, COALESCE(anon_key, ''), exercise_id, type, value, unit, created_at
		FROM assessment
		WHERE exercise_id = ANY($3)
		  AND CASE WHEN $1::BIGINT IS NOT NULL THEN user_id = $1 ELSE anon_key = $2 END
		ORDER BY exercise_id, created_at DESC, id DESC
	`, filter.UserID, filter.AnonKey, filter.ExerciseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a     Assessment
			aType string
			aUnit string
		)
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.AnonKey,
			&a.ExerciseID,
			&aType,
			&a.Value,
			&aUnit,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Type = AssessmentType(aType)
		a.Unit = catalog.Unit(aUnit)
		latest[a.ExerciseID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return latest, nil
}
