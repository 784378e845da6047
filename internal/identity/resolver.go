package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type usersRepo interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	Add(ctx context.Context, user User) (*User, error)
}

type Resolver struct {
	users usersRepo
	now   func() time.Time
}

func NewResolver(users usersRepo) *Resolver {
	return &Resolver{
		users: users,
		now:   time.Now,
	}
}

// Resolve returns the explicit user id unchanged, otherwise the durable id
// of the authenticated principal (created on first sight). With neither
// it fails with apperr.ErrUnresolvable; the anonymous key is never turned
// into a user.
func (r *Resolver) Resolve(ctx context.Context, claims Claims) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "identity.resolver.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if claims.HasUser() {
		span.SetAttributes(attribute.Bool("explicit", true))
		return claims.UserID, nil
	}
	if claims.Principal == nil || claims.Principal.Subject == "" {
		return 0, apperr.ErrUnresolvable
	}

	user, err := r.UserForPrincipal(ctx, *claims.Principal)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user.ID, nil
}

// UserForPrincipal looks the principal up by subject and inserts it when
// missing. The display name is only copied on insert.
func (r *Resolver) UserForPrincipal(ctx context.Context, p Principal) (*User, error) {
	user, err := r.users.GetBySubject(ctx, p.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("get user by subject: %w", err)
	}

	user, err = r.users.Add(ctx, User{
		Subject:     p.Subject,
		DisplayName: p.DisplayName,
		CreatedAt:   r.now(),
	})
	if errors.Is(err, ErrUserExists) {
		// lost the insert race, the winner's row is the durable one
		return r.users.GetBySubject(ctx, p.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}
	return user, nil
}

// Scope resolves the claims for read paths. An unresolvable principal is not
// an error as long as an anonymous key is present.
func (r *Resolver) Scope(ctx context.Context, claims Claims) (Scope, error) {
	scope := Scope{AnonKey: claims.AnonKey}

	userID, err := r.Resolve(ctx, claims)
	switch {
	case err == nil:
		scope.UserID = &userID
	case errors.Is(err, apperr.ErrUnresolvable):
	default:
		return Scope{}, err
	}

	if scope.IsEmpty() {
		return Scope{}, apperr.ErrUnresolvable
	}
	return scope, nil
}
