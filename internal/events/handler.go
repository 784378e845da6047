package events

import (
	"context"
	"net/http"

	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=events_mocks_test.go -package=events_test

type eventsLister interface {
	ListForSession(ctx context.Context, sessionID string) ([]Event, error)
}

type ListResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

type Handler struct {
	service eventsLister
}

func NewHandler(service eventsLister) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleListForSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.listforsession")
	defer span.End()

	sessionID := mux.Vars(r)["id"]
	if sessionID == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}

	events, err := h.service.ListForSession(ctx, sessionID)
	if err != nil {
		log.Errorf("list events for session %s: %s", sessionID, err)
		http.Error(w, "failed to list session events", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Events: events,
		Total:  len(events),
	}, http.StatusOK)
}
