package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=sessions_test

type sessionsEngine interface {
	Start(ctx context.Context, params StartParams) (*Session, error)
	MarkSetDone(ctx context.Context, sessionID string, exIdx, setIdx int, actuals SetActuals) (*Session, error)
	UpdatePlannedWeight(ctx context.Context, sessionID string, exIdx int, weight float64, fromSetIdx int) (*Session, error)
	RecordEffort(ctx context.Context, sessionID string, exIdx int, rir float64, claims identity.Claims) (*Session, error)
	Complete(ctx context.Context, sessionID string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	LatestActive(ctx context.Context, claims identity.Claims) (*Session, error)
	History(ctx context.Context, claims identity.Claims) ([]Session, error)
}

type StartRequest struct {
	TemplateID     int64              `json:"templateId"`
	UserID         int64              `json:"userId,omitempty"`
	AnonKey        string             `json:"anonKey,omitempty"`
	PlannedWeights map[string]float64 `json:"plannedWeights,omitempty"`
}

type StartResponse struct {
	ID string `json:"id"`
}

type MarkSetDoneRequest struct {
	Reps   *int     `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

type UpdateWeightRequest struct {
	Weight       *float64 `json:"weight"`
	FromSetIndex *int     `json:"fromSetIndex,omitempty"`
}

type EffortRequest struct {
	RIR    *float64 `json:"rir"`
	UserID int64    `json:"userId,omitempty"`
}

// ActiveResponse wraps the active session, nil when there is none.
type ActiveResponse struct {
	Session *Session `json:"session"`
}

type HistoryResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type Handler struct {
	engine sessionsEngine
}

func NewHandler(engine sessionsEngine) *Handler {
	return &Handler{
		engine: engine,
	}
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.start")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("start session, unmarshal json params: %s", err)
		http.Error(w, "start session failed", http.StatusBadRequest)
		return
	}
	if req.UserID > 0 {
		claims.UserID = req.UserID
	}
	if req.AnonKey != "" {
		claims.AnonKey = req.AnonKey
	}

	plannedWeights := make(map[int64]float64, len(req.PlannedWeights))
	for exIDStr, weight := range req.PlannedWeights {
		exID, err := strconv.ParseInt(exIDStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid planned weights exercise id", http.StatusBadRequest)
			return
		}
		plannedWeights[exID] = weight
	}

	session, err := h.engine.Start(ctx, StartParams{
		TemplateID:     req.TemplateID,
		Claims:         claims,
		PlannedWeights: plannedWeights,
	})
	if err != nil {
		log.Errorf("start session from template %d: %s", req.TemplateID, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, StartResponse{ID: session.ID}, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	sessionID := mux.Vars(r)["id"]
	session, err := h.engine.Get(ctx, sessionID)
	if err != nil {
		log.Tracef("get session %s: %s", sessionID, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleLatestActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.active")
	defer span.End()

	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	session, err := h.engine.LatestActive(ctx, claims)
	if err != nil {
		log.Errorf("latest active session: %s", err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, ActiveResponse{Session: session}, http.StatusOK)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.history")
	defer span.End()

	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	sessions, err := h.engine.History(ctx, claims)
	if err != nil {
		log.Errorf("sessions history: %s", err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, HistoryResponse{
		Sessions: sessions,
		Total:    len(sessions),
	}, http.StatusOK)
}

func (h *Handler) HandleMarkSetDone(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.marksetdone")
	defer span.End()

	vars := mux.Vars(r)
	exIdx, err := strconv.Atoi(vars["exIdx"])
	if err != nil {
		http.Error(w, "error, exercise index NaN", http.StatusBadRequest)
		return
	}
	setIdx, err := strconv.Atoi(vars["setIdx"])
	if err != nil {
		http.Error(w, "error, set index NaN", http.StatusBadRequest)
		return
	}

	// the body is optional, no actuals keeps whatever was recorded
	var req MarkSetDoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Errorf("mark set done, unmarshal json params: %s", err)
		http.Error(w, "mark set done failed", http.StatusBadRequest)
		return
	}

	session, err := h.engine.MarkSetDone(ctx, vars["id"], exIdx, setIdx, SetActuals{
		Reps:   req.Reps,
		Weight: req.Weight,
	})
	h.writeMutationResult(w, "mark set done", vars["id"], session, err)
}

func (h *Handler) HandleUpdatePlannedWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.updateplannedweight")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	exIdx, err := strconv.Atoi(vars["exIdx"])
	if err != nil {
		http.Error(w, "error, exercise index NaN", http.StatusBadRequest)
		return
	}

	var req UpdateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("update planned weight, unmarshal json params: %s", err)
		http.Error(w, "update planned weight failed", http.StatusBadRequest)
		return
	}
	if req.Weight == nil {
		http.Error(w, "error, weight missing", http.StatusBadRequest)
		return
	}
	fromSetIdx := 0
	if req.FromSetIndex != nil {
		fromSetIdx = *req.FromSetIndex
	}
	span.SetAttributes(attribute.Float64("weight", *req.Weight))

	session, err := h.engine.UpdatePlannedWeight(ctx, vars["id"], exIdx, *req.Weight, fromSetIdx)
	h.writeMutationResult(w, "update planned weight", vars["id"], session, err)
}

func (h *Handler) HandleRecordEffort(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.recordeffort")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	exIdx, err := strconv.Atoi(vars["exIdx"])
	if err != nil {
		http.Error(w, "error, exercise index NaN", http.StatusBadRequest)
		return
	}

	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	var req EffortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("record effort, unmarshal json params: %s", err)
		http.Error(w, "record effort failed", http.StatusBadRequest)
		return
	}
	if req.RIR == nil {
		http.Error(w, "error, rir missing", http.StatusBadRequest)
		return
	}
	if req.UserID > 0 {
		claims.UserID = req.UserID
	}

	session, err := h.engine.RecordEffort(ctx, vars["id"], exIdx, *req.RIR, claims)
	h.writeMutationResult(w, "record effort", vars["id"], session, err)
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.complete")
	defer span.End()

	sessionID := mux.Vars(r)["id"]
	session, err := h.engine.Complete(ctx, sessionID)
	h.writeMutationResult(w, "complete", sessionID, session, err)
}

func (h *Handler) writeMutationResult(w http.ResponseWriter, op, sessionID string, session *Session, err error) {
	if err != nil {
		if apperr.HTTPStatus(err) == http.StatusInternalServerError {
			log.Errorf("session %s, %s: %s", sessionID, op, err)
		} else {
			log.Debugf("session %s, %s: %s", sessionID, op, err)
		}
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}
	pkg.WriteJSON(w, session, http.StatusOK)
}
