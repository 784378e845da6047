package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	log "github.com/sirupsen/logrus"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	authService *Service
	now         func() time.Time
}

func NewHandler(authService *Service) *Handler {
	return &Handler{
		authService: authService,
		now:         time.Now,
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var creds Credentials
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		creds = Credentials{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := h.authService.Login(ctx, creds, h.now())
	if errors.Is(err, ErrWrongCredentials) {
		http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success for %s", creds.Username)
	pkg.WriteJSON(w, LoginResponse{Token: token}, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	authToken := TokenFromRequest(r)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := h.authService.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}
