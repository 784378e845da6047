package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "repcoach-login-session||"
	tokensSetKey     = "repcoach-login-sessions"
	tokenLength      = 35
)

var ErrWrongCredentials = errors.New("wrong credentials")

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginSession is stored in redis as JSON under the token key.
type loginSession struct {
	CreatedAt   time.Time `json:"created_at"`
	Subject     string    `json:"subject"`
	DisplayName string    `json:"display_name"`
}

func (s loginSession) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	accounts    map[string]config.Account
	now         func() time.Time
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	accounts []config.Account,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	byUsername := make(map[string]config.Account, len(accounts))
	for _, a := range accounts {
		byUsername[a.Username] = a
	}
	return &Service{
		redisClient:    redisClient,
		ttl:            ttl,
		accounts:       byUsername,
		now:            time.Now,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the credentials against the configured accounts and stores a
// new token. The account username becomes the principal subject.
func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	account, ok := as.accounts[creds.Username]
	if !ok {
		log.Tracef("[username] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}
	if !pkg.CheckPasswordHash(creds.Password, account.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}

	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionBytes, err := json.Marshal(loginSession{
		CreatedAt:   createdAt,
		Subject:     account.Username,
		DisplayName: account.DisplayName,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login session: %w", err)
	}

	if err := as.redisClient.Set(ctx, sessionKey(token), string(sessionBytes), as.ttl).Err(); err != nil {
		return "", fmt.Errorf("store login session: %w", err)
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("add login token: %w", err)
	}

	span.SetAttributes(attribute.String("subject", account.Username))
	return token, nil
}

// Logout reports whether the token belonged to a stored login session.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	deleted, err := as.redisClient.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	now := as.now()
	var toRemove []string
	for _, token := range sessionTokens {
		sessionJSON, err := as.redisClient.Get(ctx, sessionKey(token)).Result()
		if errors.Is(err, redis.Nil) {
			// key already expired in redis, only the set entry is left
			toRemove = append(toRemove, token)
			continue
		}
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		var session loginSession
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if session.expired(now, as.ttl) {
			log.Warnf("=>\twill clean the session of: %s", session.Subject)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKey(token)).Err(); err != nil {
			log.Errorf("=> auth service, clean token: %s", err)
			continue
		}

		// remove token from the list of sessions
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token: %s", err)
			continue
		}
	}
}
