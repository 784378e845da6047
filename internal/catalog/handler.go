package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type exercisesReader interface {
	Get(ctx context.Context, id int64) (*Exercise, error)
	ListByBodyPart(ctx context.Context, bodyPart string) ([]Exercise, error)
}

type ListResponse struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
}

type Handler struct {
	repo exercisesReader
}

func NewHandler(repo exercisesReader) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int64("exercise.id", id))

	exercise, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get exercise %d: %s", id, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	bodyPart := r.URL.Query().Get("bodyPart")
	exercises, err := handler.repo.ListByBodyPart(ctx, bodyPart)
	if err != nil {
		log.Errorf("failed to list exercises [%s]: %s", bodyPart, err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Exercises: exercises,
		Total:     len(exercises),
	}, http.StatusOK)
}
