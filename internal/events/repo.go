package events

import (
	"context"
	"fmt"

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

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", event.SessionID),
		attribute.String("type", event.Type.String()),
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

	err = tx.QueryRow(ctx, `
		INSERT INTO session_event (session_id, type, data, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		event.SessionID,
		event.Type,
		event.Data,
		event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *Repo) ListForSession(ctx context.Context, sessionID string) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.listforsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, type, data, timestamp
		FROM session_event
		WHERE session_id = $1
		ORDER BY timestamp, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var event Event
		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&event.Type,
			&event.Data,
			&event.Timestamp,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
