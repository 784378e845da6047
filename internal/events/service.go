package events

import (
	"context"
	"fmt"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	ListForSession(ctx context.Context, sessionID string) ([]Event, error)
}

type Service struct {
	repo eventsRepo
}

func NewService(repo eventsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Record(ctx context.Context, event Event) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", event.Type.String()))

	if !event.Type.IsValid() {
		return apperr.Invalid("type", "unknown event type %q", event.Type)
	}
	if event.SessionID == "" {
		return apperr.Invalid("sessionId", "empty")
	}
	if event.Data == nil {
		event.Data = map[string]string{}
	}

	if _, err := s.repo.Add(ctx, event); err != nil {
		return fmt.Errorf("add %s event: %w", event.Type, err)
	}
	return nil
}

func (s *Service) ListForSession(ctx context.Context, sessionID string) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.listforsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	events, err := s.repo.ListForSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
