package templates

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=templates_mocks_test.go -package=templates_test

type templatesService interface {
	Create(ctx context.Context, template Template) (*Template, error)
	Update(ctx context.Context, id int64, update Update) (*Template, error)
	Get(ctx context.Context, id int64) (*Template, error)
	List(ctx context.Context, bodyPart string) ([]Template, error)
	Delete(ctx context.Context, id int64) error
}

type ListResponse struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
}

type DeleteResponse struct {
	DeletedID int64 `json:"deletedId"`
}

type Handler struct {
	service templatesService
}

func NewHandler(service templatesService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.create")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var template Template
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		log.Errorf("new template, unmarshal json params: %s", err)
		http.Error(w, "add template failed", http.StatusBadRequest)
		return
	}

	added, err := handler.service.Create(ctx, template)
	if err != nil {
		log.Errorf("failed to add template [%s]: %s", template.Name, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.update")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id, ok := templateIDFromRequest(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("template.id", id))

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update template, unmarshal json params: %s", err)
		http.Error(w, "update template failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.Update(ctx, id, update)
	if err != nil {
		log.Errorf("failed to update template %d: %s", id, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	id, ok := templateIDFromRequest(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("template.id", id))

	template, err := handler.service.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get template %d: %s", id, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, template, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	bodyPart := r.URL.Query().Get("bodyPart")
	templates, err := handler.service.List(ctx, bodyPart)
	if err != nil {
		log.Errorf("failed to list templates [%s]: %s", bodyPart, err)
		http.Error(w, "failed to list templates", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{
		Templates: templates,
		Total:     len(templates),
	}, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
	defer span.End()

	id, ok := templateIDFromRequest(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("template.id", id))

	if err := handler.service.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete template %d: %s", id, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func templateIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
