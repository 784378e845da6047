// Package identity maps the identity channels a request can carry
// (explicit user id, authenticated principal, anonymous device key)
// to the user id that scopes history and progression data.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/apperr"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrUserExists   = errors.New("user already exists")
)

// Principal is an authenticated caller, keyed by its immutable subject claim.
type Principal struct {
	Subject     string `json:"subject"`
	DisplayName string `json:"displayName"`
}

// Claims is the explicit identity context handed to every core operation.
type Claims struct {
	UserID    int64
	AnonKey   string
	Principal *Principal
}

func (c Claims) HasUser() bool {
	return c.UserID > 0
}

func (c Claims) IsEmpty() bool {
	return c.UserID <= 0 && c.AnonKey == "" && c.Principal == nil
}

// PreferAnon drops the principal when the caller supplied an anonymous key
// but no explicit user, keeping a device's reads on its own records.
func (c Claims) PreferAnon() Claims {
	if c.AnonKey != "" && !c.HasUser() {
		c.Principal = nil
	}
	return c
}

type User struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Scope is the resolved identity used for history lookups. Both channels
// may be set; readers decide which one is authoritative.
type Scope struct {
	UserID  *int64
	AnonKey string
}

func (s Scope) IsEmpty() bool {
	return s.UserID == nil && s.AnonKey == ""
}

type principalCtxKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*Principal)
	return p
}
