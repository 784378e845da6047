package sessions

import (
	"context"
	"time"

	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const sessionColumns = `id, user_id, anon_key, template_id, status, started_at, completed_at, revision, exercises`

// Store keeps sessions as whole documents, one row each with the exercises
// in a JSONB column. Writes are compare-and-swap on the revision.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Add(ctx context.Context, session Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", session.ID))

	id, err := uuid.Parse(session.ID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO workout_session (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		session.UserID,
		nullIfEmpty(session.AnonKey),
		session.TemplateID,
		string(session.Status),
		session.StartedAt,
		session.CompletedAt,
		session.Revision,
		session.Exercises,
	)
	return err
}

func (s *Store) Get(ctx context.Context, sessionID string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	id, err := uuid.Parse(sessionID)
	if err != nil {
		// not a session id we could have issued
		return nil, ErrSessionNotFound
	}

	row := s.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM workout_session WHERE id = $1`, id)
	session, err := scanSession(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Replace writes the session back only if the stored revision still equals
// session.Revision, and bumps the stored revision.
func (s *Store) Replace(ctx context.Context, session Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.Int64("revision", session.Revision),
	)

	id, err := uuid.Parse(session.ID)
	if err != nil {
		return ErrSessionNotFound
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE workout_session
		SET user_id = $3, anon_key = $4, status = $5, completed_at = $6, exercises = $7, revision = revision + 1
		WHERE id = $1 AND revision = $2
	`,
		id,
		session.Revision,
		session.UserID,
		nullIfEmpty(session.AnonKey),
		string(session.Status),
		session.CompletedAt,
		session.Exercises,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM workout_session WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrSessionNotFound
	}
	return ErrRevisionConflict
}

// ListForIdentity returns the sessions of either identity channel, newest first.
func (s *Store) ListForIdentity(ctx context.Context, scope identity.Scope) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.listforidentity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Bool("scope.user", scope.UserID != nil),
		attribute.Bool("scope.anon", scope.AnonKey != ""),
	)

	rows, err := s.db.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM workout_session
		WHERE ($1::BIGINT IS NOT NULL AND user_id = $1)
		   OR ($2 <> '' AND anon_key = $2)
		ORDER BY started_at DESC, id
	`, scope.UserID, scope.AnonKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var (
		session     Session
		id          uuid.UUID
		anonKey     *string
		status      string
		completedAt *time.Time
	)
	if err := row.Scan(
		&id,
		&session.UserID,
		&anonKey,
		&session.TemplateID,
		&status,
		&session.StartedAt,
		&completedAt,
		&session.Revision,
		&session.Exercises,
	); err != nil {
		return nil, err
	}
	session.ID = id.String()
	session.Status = Status(status)
	session.CompletedAt = completedAt
	if anonKey != nil {
		session.AnonKey = *anonKey
	}
	return &session, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
