package identity

import (
	"context"

	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetBySubject(ctx context.Context, subject string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbysubject")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{}
	err = r.db.QueryRow(ctx, `
		SELECT id, subject, display_name, created_at
		FROM app_user
		WHERE subject = $1
	`, subject).Scan(&user.ID, &user.Subject, &user.DisplayName, &user.CreatedAt)
	if pkg.IsNoRowsError(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO app_user (subject, display_name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Subject, user.DisplayName, user.CreatedAt).Scan(&user.ID)
	if pkg.IsUniqueViolationError(err) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
