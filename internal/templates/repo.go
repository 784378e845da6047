package templates

import (
	"context"

	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const templateColumns = `id, name, description, body_part, variation, default_unit, items, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, template Template) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_template (name, description, body_part, variation, default_unit, items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		template.Name,
		template.Description,
		template.BodyPart,
		template.Variation,
		string(template.DefaultUnit),
		template.Items,
		template.CreatedAt,
	).Scan(&template.ID)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	row := r.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM workout_template WHERE id = $1`, id)
	template, err := scanTemplate(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (r *Repo) Replace(ctx context.Context, template Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", template.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE workout_template
		SET name = $2, description = $3, body_part = $4, variation = $5, default_unit = $6, items = $7
		WHERE id = $1
	`,
		template.ID,
		template.Name,
		template.Description,
		template.BodyPart,
		template.Variation,
		string(template.DefaultUnit),
		template.Items,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *Repo) ListByBodyPart(ctx context.Context, bodyPart string) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.listbybodypart")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("body_part", bodyPart))

	rows, err := r.db.Query(ctx, `
		SELECT `+templateColumns+`
		FROM workout_template
		WHERE ($1 = '' OR body_part = $1)
		ORDER BY name, id
	`, bodyPart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]Template, 0)
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_template WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (*Template, error) {
	var (
		template    Template
		defaultUnit string
	)
	if err := row.Scan(
		&template.ID,
		&template.Name,
		&template.Description,
		&template.BodyPart,
		&template.Variation,
		&defaultUnit,
		&template.Items,
		&template.CreatedAt,
	); err != nil {
		return nil, err
	}
	template.DefaultUnit = catalog.Unit(defaultUnit)
	return &template, nil
}
