package catalog

import (
	"context"

	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const exerciseColumns = `id, name, body_part, is_weighted, equipment, loading_mode,
	rounding_increment_kg, rounding_increment_lbs, description, gif_url, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO exercise (
			name, body_part, is_weighted, equipment, loading_mode,
			rounding_increment_kg, rounding_increment_lbs, description, gif_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		exercise.Name,
		exercise.BodyPart,
		exercise.IsWeighted,
		(*string)(exercise.Equipment),
		(*string)(exercise.LoadingMode),
		exercise.RoundingIncrementKg,
		exercise.RoundingIncrementLbs,
		exercise.Description,
		exercise.GifURL,
		exercise.CreatedAt,
	).Scan(&exercise.ID)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	row := r.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE id = $1`, id)
	exercise, err := scanExercise(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetMultiple returns the found exercises keyed by id; unknown ids are omitted.
func (r *Repo) GetMultiple(ctx context.Context, ids []int64) (_ map[int64]Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.getmultiple")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids.count", len(ids)))

	exercises := make(map[int64]Exercise, len(ids))
	if len(ids) == 0 {
		return exercises, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises[exercise.ID] = *exercise
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// ListByBodyPart lists exercises ordered by name; an empty body part lists all.
func (r *Repo) ListByBodyPart(ctx context.Context, bodyPart string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.listbybodypart")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("body_part", bodyPart))

	rows, err := r.db.Query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercise
		WHERE ($1 = '' OR body_part = $1)
		ORDER BY name, id
	`, bodyPart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var (
		exercise    Exercise
		equipment   *string
		loadingMode *string
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.BodyPart,
		&exercise.IsWeighted,
		&equipment,
		&loadingMode,
		&exercise.RoundingIncrementKg,
		&exercise.RoundingIncrementLbs,
		&exercise.Description,
		&exercise.GifURL,
		&exercise.CreatedAt,
	); err != nil {
		return nil, err
	}
	if equipment != nil {
		e := Equipment(*equipment)
		exercise.Equipment = &e
	}
	if loadingMode != nil {
		m := LoadingMode(*loadingMode)
		exercise.LoadingMode = &m
	}
	return &exercise, nil
}
