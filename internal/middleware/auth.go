package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/repcoach/internal/auth"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=middleware_mocks_test.go -package=middleware_test

type loginChecker interface {
	Principal(ctx context.Context, token string) (*identity.Principal, error)
}

type AuthMiddlewareHandler struct {
	loginChecker loginChecker
	// paths that never look at the token
	skipPaths map[string]bool
	// paths that need a signed in principal regardless of method
	protectedPaths map[string]bool
	// prefixes where everything but GET needs a signed in principal
	protectedWritePrefixes []string
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		skipPaths: map[string]bool{
			"/":        true,
			"/a/login": true,
		},
		protectedPaths: map[string]bool{
			"/me":       true,
			"/a/logout": true,
		},
		protectedWritePrefixes: []string{
			"/templates",
		},
	}
}

func (h *AuthMiddlewareHandler) principalRequired(r *http.Request) bool {
	if h.protectedPaths[r.URL.Path] {
		return true
	}
	if r.Method == http.MethodGet {
		return false
	}
	for _, prefix := range h.protectedWritePrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck attaches the principal of a valid token to the request context.
// Requests without a token pass through as anonymous unless the path needs
// a principal; a token that does not check out is always rejected.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.skipPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := auth.TokenFromRequest(r)
			if authToken == "" {
				if h.principalRequired(r) {
					log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
					http.Error(w, "no can do", http.StatusUnauthorized)
					span.SetStatus(codes.Error, "missing-auth-token")
					return
				}
				span.SetStatus(codes.Ok, "anonymous")
				next.ServeHTTP(w, r)
				return
			}

			principal, err := h.loginChecker.Principal(ctx, authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}
			if principal == nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(identity.ContextWithPrincipal(ctx, principal)))
		})
	}
}
