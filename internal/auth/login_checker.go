package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/repcoach/internal/identity"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// Principal returns the principal the token was issued to, or nil when the
// token is unknown or expired.
func (lc *LoginChecker) Principal(ctx context.Context, token string) (*identity.Principal, error) {
	if token == "" {
		return nil, nil
	}

	sessionJSON, err := lc.redisClient.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get login session: %w", err)
	}

	var session loginSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("unmarshal login session: %w", err)
	}
	if session.expired(lc.now(), lc.ttl) {
		return nil, nil
	}

	return &identity.Principal{
		Subject:     session.Subject,
		DisplayName: session.DisplayName,
	}, nil
}

// TokenFromRequest reads a bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return header
}
