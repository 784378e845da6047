package identity

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	log "github.com/sirupsen/logrus"
)

const AnonKeyHeader = "X-Anon-Key"

// ClaimsFromRequest collects the identity channels a request carries:
// the principal attached by the auth middleware, an explicit userId query
// param and the anonymous key (header first, then anonKey query param).
func ClaimsFromRequest(r *http.Request) (Claims, error) {
	claims := Claims{
		Principal: PrincipalFromContext(r.Context()),
		AnonKey:   strings.TrimSpace(r.Header.Get(AnonKeyHeader)),
	}
	if claims.AnonKey == "" {
		claims.AnonKey = strings.TrimSpace(r.URL.Query().Get("anonKey"))
	}

	if userIDParam := r.URL.Query().Get("userId"); userIDParam != "" {
		userID, err := strconv.ParseInt(userIDParam, 10, 64)
		if err != nil || userID <= 0 {
			return Claims{}, apperr.Invalid("userId", "must be a positive integer")
		}
		claims.UserID = userID
	}

	return claims, nil
}

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{
		resolver: resolver,
	}
}

// HandleMe returns the durable user of the authenticated principal.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.identity.me")
	defer span.End()

	principal := PrincipalFromContext(ctx)
	if principal == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := h.resolver.UserForPrincipal(ctx, *principal)
	if err != nil {
		log.Errorf("me, resolve user for %s: %s", principal.Subject, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, user, http.StatusOK)
}
