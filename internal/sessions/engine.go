package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/events"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/progression"
	"github.com/2beens/repcoach/internal/telemetry/metrics"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/internal/templates"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultMutationAttempts = 5

type sessionsStore interface {
	Add(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Replace(ctx context.Context, session Session) error
	ListForIdentity(ctx context.Context, scope identity.Scope) ([]Session, error)
}

type templatesReader interface {
	Get(ctx context.Context, id int64) (*templates.Template, error)
}

type exercisesReader interface {
	GetMultiple(ctx context.Context, ids []int64) (map[int64]catalog.Exercise, error)
}

type profilesRepo interface {
	GetForExercises(ctx context.Context, userID int64, exerciseIDs []int64) (map[int64]progression.Profile, error)
	Upsert(ctx context.Context, key progression.Key, update func(*progression.Profile)) (*progression.Profile, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, claims identity.Claims) (int64, error)
	Scope(ctx context.Context, claims identity.Claims) (identity.Scope, error)
}

type journal interface {
	Record(ctx context.Context, event events.Event) error
}

type EngineParams struct {
	Store     sessionsStore
	Templates templatesReader
	Exercises exercisesReader
	Profiles  profilesRepo
	Resolver  identityResolver
	Journal   journal
	Metrics   *metrics.Manager
	// MaxAttempts bounds the read-apply-write retries of one mutation.
	MaxAttempts int
}

type Engine struct {
	store       sessionsStore
	templates   templatesReader
	exercises   exercisesReader
	profiles    profilesRepo
	resolver    identityResolver
	journal     journal
	metrics     *metrics.Manager
	maxAttempts int
	now         func() time.Time
	newID       func() string
}

func NewEngine(params EngineParams) *Engine {
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMutationAttempts
	}
	return &Engine{
		store:       params.Store,
		templates:   params.Templates,
		exercises:   params.Exercises,
		profiles:    params.Profiles,
		resolver:    params.Resolver,
		journal:     params.Journal,
		metrics:     params.Metrics,
		maxAttempts: maxAttempts,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

type StartParams struct {
	TemplateID int64
	Claims     identity.Claims
	// PlannedWeights overrides the planned weight per exercise id.
	PlannedWeights map[int64]float64
}

// SetActuals carries what was lifted; nil fields keep the stored values.
type SetActuals struct {
	Reps   *int
	Weight *float64
}

func (e *Engine) Start(ctx context.Context, params StartParams) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int64("template.id", params.TemplateID))

	template, err := e.templates.Get(ctx, params.TemplateID)
	if err != nil {
		return nil, err
	}

	userID, err := e.resolveOptional(ctx, params.Claims)
	if err != nil {
		return nil, err
	}

	exerciseIDs := template.ExerciseIDs()
	catalogExercises, err := e.exercises.GetMultiple(ctx, exerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("get template exercises: %w", err)
	}

	profiles := map[int64]progression.Profile{}
	if userID != nil {
		profiles, err = e.profiles.GetForExercises(ctx, *userID, exerciseIDs)
		if err != nil {
			return nil, fmt.Errorf("get progression profiles: %w", err)
		}
	}

	items := append([]templates.Item(nil), template.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})

	sessionExercises := make([]Exercise, 0, len(items))
	for _, item := range items {
		planned := plannedWeight(item.ExerciseID, params.PlannedWeights, profiles)
		catalogExercise, found := catalogExercises[item.ExerciseID]
		if !found {
			log.Warnf("start session: exercise %d of template %d missing from catalog", item.ExerciseID, template.ID)
		}
		sessionExercises = append(sessionExercises, newSessionExercise(item, catalogExercise, found, planned))
	}

	session := Session{
		ID:         e.newID(),
		UserID:     userID,
		AnonKey:    params.Claims.AnonKey,
		TemplateID: &template.ID,
		Status:     StatusActive,
		StartedAt:  e.now(),
		Exercises:  sessionExercises,
	}
	if err := e.store.Add(ctx, session); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", session.ID))

	e.metrics.CounterSessionsStarted.Inc()
	e.record(ctx, events.NewSessionStartedEvent(session.ID, session.TemplateID, len(session.Exercises), session.StartedAt))
	log.Debugf("session %s started from template %d", session.ID, template.ID)

	return &session, nil
}

// plannedWeight picks the override first, then the stored suggestion.
func plannedWeight(exerciseID int64, overrides map[int64]float64, profiles map[int64]progression.Profile) *float64 {
	if w, ok := overrides[exerciseID]; ok {
		return &w
	}
	if p, ok := profiles[exerciseID]; ok && p.NextPlannedWeightKg != nil {
		w := *p.NextPlannedWeightKg
		return &w
	}
	return nil
}

func newSessionExercise(item templates.Item, catalogExercise catalog.Exercise, found bool, planned *float64) Exercise {
	loadBasis := LoadBasisExternal
	if found && !catalogExercise.IsWeighted {
		loadBasis = LoadBasisBodyweight
	}

	sets := make([]Set, 0, len(item.Sets))
	for _, spec := range item.Sets {
		// a zero planned weight counts as none and falls back to the authored one
		weight := spec.Weight
		if planned != nil && *planned != 0 {
			weight = planned
		}
		sets = append(sets, Set{
			Reps:   spec.Reps,
			Weight: clonePtr(weight),
		})
	}

	var restSec *int
	if len(item.Sets) > 0 {
		restSec = clonePtr(item.Sets[0].RestSec)
	}

	return Exercise{
		ExerciseID:  item.ExerciseID,
		Name:        catalogExercise.Name,
		Equipment:   clonePtr(catalogExercise.Equipment),
		LoadingMode: clonePtr(catalogExercise.LoadingMode),
		LoadBasis:   loadBasis,
		Order:       item.Order,
		GroupID:     item.GroupID,
		GroupOrder:  clonePtr(item.GroupOrder),
		RestSec:     restSec,
		Sets:        sets,
	}
}

func (e *Engine) MarkSetDone(ctx context.Context, sessionID string, exIdx, setIdx int, actuals SetActuals) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.marksetdone")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("exercise.index", exIdx),
		attribute.Int("set.index", setIdx),
	)

	if actuals.Reps != nil && *actuals.Reps < 0 {
		return nil, apperr.Invalid("reps", "must not be negative")
	}
	if actuals.Weight != nil && *actuals.Weight < 0 {
		return nil, apperr.Invalid("weight", "must not be negative")
	}

	now := e.now()
	session, err := e.mutate(ctx, sessionID, func(s *Session) error {
		ex, err := s.exercise(exIdx)
		if err != nil {
			return err
		}
		set, err := ex.set(setIdx)
		if err != nil {
			return err
		}
		set.Done = true
		set.CompletedAt = &now
		if actuals.Reps != nil {
			set.CompletedReps = clonePtr(actuals.Reps)
		}
		if actuals.Weight != nil {
			set.CompletedWeight = clonePtr(actuals.Weight)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.CounterSetsCompleted.Inc()
	e.record(ctx, events.NewSetCompletedEvent(sessionID, exIdx, setIdx, actuals.Reps, actuals.Weight, now))

	return session, nil
}

// UpdatePlannedWeight sets the planned weight of every not yet done set of
// the exercise, starting at fromSetIdx. Done sets keep their history.
func (e *Engine) UpdatePlannedWeight(ctx context.Context, sessionID string, exIdx int, weight float64, fromSetIdx int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.updateplannedweight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("exercise.index", exIdx),
		attribute.Int("from.set.index", fromSetIdx),
	)

	if weight < 0 {
		return nil, apperr.Invalid("weight", "must not be negative")
	}
	if fromSetIdx < 0 {
		return nil, fmt.Errorf("%w: index %d", ErrSetNotFound, fromSetIdx)
	}

	session, err := e.mutate(ctx, sessionID, func(s *Session) error {
		ex, err := s.exercise(exIdx)
		if err != nil {
			return err
		}
		for i := fromSetIdx; i < len(ex.Sets); i++ {
			if ex.Sets[i].Done {
				continue
			}
			w := weight
			ex.Sets[i].Weight = &w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.record(ctx, events.NewPlannedWeightUpdatedEvent(sessionID, exIdx, fromSetIdx, weight, e.now()))

	return session, nil
}

// RecordEffort stores the reps-in-reserve on the exercise and, when both a
// weight and a user are known, upserts the user's progression profile.
// A session without a user gets one resolved from claims on the way.
func (e *Engine) RecordEffort(ctx context.Context, sessionID string, exIdx int, rir float64, claims identity.Claims) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.recordeffort")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("exercise.index", exIdx),
		attribute.Float64("rir", rir),
	)

	var (
		exerciseID int64
		lastWeight float64
		hasWeight  bool
	)
	session, err := e.mutate(ctx, sessionID, func(s *Session) error {
		ex, err := s.exercise(exIdx)
		if err != nil {
			return err
		}
		r := rir
		ex.RIR = &r
		exerciseID = ex.ExerciseID
		lastWeight, hasWeight = ex.LastWeight()

		if s.UserID == nil {
			userID, err := e.resolveOptional(ctx, claims)
			if err != nil {
				return err
			}
			s.UserID = userID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.metrics.CounterEffortsRecorded.Inc()

	profileUserID := session.UserID
	if claims.HasUser() {
		profileUserID = &claims.UserID
	}

	var nextWeight *float64
	if hasWeight && profileUserID != nil {
		key := progression.Key{UserID: *profileUserID, ExerciseID: exerciseID}
		profile, err := e.profiles.Upsert(ctx, key, progression.RecordEffort(lastWeight, rir, e.now()))
		if err != nil {
			return nil, fmt.Errorf("upsert progression profile: %w", err)
		}
		nextWeight = profile.NextPlannedWeightKg
		e.metrics.CounterProfilesUpserted.Inc()
	} else {
		log.Debugf("session %s exercise %d: no progression update (weight: %t, user: %t)",
			sessionID, exIdx, hasWeight, profileUserID != nil)
	}

	e.record(ctx, events.NewEffortRecordedEvent(sessionID, exIdx, rir, nextWeight, e.now()))

	return session, nil
}

func (e *Engine) Complete(ctx context.Context, sessionID string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", sessionID))

	now := e.now()
	session, err := e.mutate(ctx, sessionID, func(s *Session) error {
		s.Status = StatusCompleted
		s.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.CounterSessionsCompleted.Inc()
	e.record(ctx, events.NewSessionCompletedEvent(sessionID, now))

	return session, nil
}

func (e *Engine) Get(ctx context.Context, sessionID string) (*Session, error) {
	return e.store.Get(ctx, sessionID)
}

// LatestActive returns the most recently started active session of the
// identity, or nil when there is none. No identity at all means no session.
func (e *Engine) LatestActive(ctx context.Context, claims identity.Claims) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.latestactive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := e.History(ctx, claims.PreferAnon())
	if errors.Is(err, apperr.ErrUnresolvable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.Status == StatusActive {
			return &s, nil
		}
	}
	return nil, nil
}

// History lists the identity's sessions, newest first.
func (e *Engine) History(ctx context.Context, claims identity.Claims) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.engine.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	scope, err := e.resolver.Scope(ctx, claims)
	if err != nil {
		return nil, err
	}
	return e.store.ListForIdentity(ctx, scope)
}

// mutate applies fn to a fresh copy of the session and writes it back with a
// revision check, re-reading and re-applying on conflict.
func (e *Engine) mutate(ctx context.Context, sessionID string, fn func(s *Session) error) (*Session, error) {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		session, err := e.store.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.Status == StatusCompleted {
			return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrSessionCompleted)
		}
		if err := fn(session); err != nil {
			return nil, err
		}

		err = e.store.Replace(ctx, *session)
		if err == nil {
			session.Revision++
			return session, nil
		}
		if !errors.Is(err, ErrRevisionConflict) {
			return nil, fmt.Errorf("replace session: %w", err)
		}

		e.metrics.CounterSessionConflicts.Inc()
		log.Debugf("session %s: revision conflict, attempt %d/%d", sessionID, attempt, e.maxAttempts)
	}

	return nil, fmt.Errorf("session %s after %d attempts: %w", sessionID, e.maxAttempts, apperr.ErrConflict)
}

// resolveOptional resolves claims to a user id, nil when unresolvable.
func (e *Engine) resolveOptional(ctx context.Context, claims identity.Claims) (*int64, error) {
	userID, err := e.resolver.Resolve(ctx, claims)
	if errors.Is(err, apperr.ErrUnresolvable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return &userID, nil
}

func (e *Engine) record(ctx context.Context, event events.Event) {
	if err := e.journal.Record(ctx, event); err != nil {
		log.Warnf("session %s: record %s event: %s", event.SessionID, event.Type, err)
	}
}
