package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/progression"
	"github.com/2beens/repcoach/internal/sessions"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type assessmentsRepo interface {
	Add(ctx context.Context, assessment Assessment) (*Assessment, error)
	Latest(ctx context.Context, filter AssessmentFilter) (map[int64]Assessment, error)
}

type sessionsLister interface {
	ListForIdentity(ctx context.Context, scope identity.Scope) ([]sessions.Session, error)
}

type profilesReader interface {
	GetForExercises(ctx context.Context, userID int64, exerciseIDs []int64) (map[int64]progression.Profile, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, claims identity.Claims) (int64, error)
	Scope(ctx context.Context, claims identity.Claims) (identity.Scope, error)
}

type ServiceParams struct {
	Assessments assessmentsRepo
	Sessions    sessionsLister
	Profiles    profilesReader
	Resolver    identityResolver
	Metrics     *metrics.Manager
}

type Service struct {
	assessments assessmentsRepo
	sessions    sessionsLister
	profiles    profilesReader
	resolver    identityResolver
	metrics     *metrics.Manager
	now         func() time.Time
}

func NewService(params ServiceParams) *Service {
	return &Service{
		assessments: params.Assessments,
		sessions:    params.Sessions,
		profiles:    params.Profiles,
		resolver:    params.Resolver,
		metrics:     params.Metrics,
		now:         time.Now,
	}
}

// LatestAssessments returns the newest assessment per exercise, scoped to the
// user when one is known and to the anonymous key otherwise.
func (s *Service) LatestAssessments(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (_ map[int64]Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.service.latestassessments")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.count", len(exerciseIDs)))

	scope, err := s.resolver.Scope(ctx, claims.PreferAnon())
	if err != nil {
		return nil, err
	}

	return s.assessments.Latest(ctx, AssessmentFilter{
		UserID:      scope.UserID,
		AnonKey:     scope.AnonKey,
		ExerciseIDs: exerciseIDs,
	})
}

// LatestCompletedWeights walks the identity's sessions newest first and, per
// exercise, takes the last weight of the first session that has one.
// Without any identity the result is empty.
func (s *Service) LatestCompletedWeights(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (_ map[int64]float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.service.latestcompletedweights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.count", len(exerciseIDs)))

	scope, err := s.resolver.Scope(ctx, claims)
	if errors.Is(err, apperr.ErrUnresolvable) {
		return map[int64]float64{}, nil
	}
	if err != nil {
		return nil, err
	}

	list, err := s.sessions.ListForIdentity(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return latestWeights(list, exerciseIDs), nil
}

// latestWeights expects sessions ordered by start time, newest first.
func latestWeights(list []sessions.Session, exerciseIDs []int64) map[int64]float64 {
	weights := make(map[int64]float64, len(exerciseIDs))
	for _, exID := range exerciseIDs {
		if _, ok := weights[exID]; ok {
			continue
		}
		for _, session := range list {
			ex, ok := findExercise(session, exID)
			if !ok {
				continue
			}
			if w, ok := ex.LastWeight(); ok {
				weights[exID] = w
				break
			}
		}
	}
	return weights
}

func findExercise(session sessions.Session, exerciseID int64) (sessions.Exercise, bool) {
	for _, ex := range session.Exercises {
		if ex.ExerciseID == exerciseID {
			return ex, true
		}
	}
	return sessions.Exercise{}, false
}

// ProgressionProfiles returns the stored profiles; without a user there are none.
func (s *Service) ProgressionProfiles(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (_ map[int64]progression.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.service.progressionprofiles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercises.count", len(exerciseIDs)))

	userID, err := s.resolver.Resolve(ctx, claims)
	if errors.Is(err, apperr.ErrUnresolvable) {
		return map[int64]progression.Profile{}, nil
	}
	if err != nil {
		return nil, err
	}

	return s.profiles.GetForExercises(ctx, userID, exerciseIDs)
}

// RecordAssessment stores a new assessment for the resolved user and/or the
// anonymous key. With neither the identity is unresolvable.
func (s *Service) RecordAssessment(ctx context.Context, claims identity.Claims, input NewAssessment) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "history.service.recordassessment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("exercise.id", input.ExerciseID),
		attribute.String("type", string(input.Type)),
	)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	assessment := Assessment{
		AnonKey:    claims.AnonKey,
		ExerciseID: input.ExerciseID,
		Type:       input.Type,
		Value:      input.Value,
		Unit:       input.Unit,
		CreatedAt:  s.now(),
	}

	userID, err := s.resolver.Resolve(ctx, claims)
	switch {
	case err == nil:
		assessment.UserID = &userID
	case errors.Is(err, apperr.ErrUnresolvable):
		if assessment.AnonKey == "" {
			return nil, err
		}
	default:
		return nil, err
	}

	added, err := s.assessments.Add(ctx, assessment)
	if err != nil {
		return nil, fmt.Errorf("add assessment: %w", err)
	}
	s.metrics.CounterAssessments.Inc()

	return added, nil
}
