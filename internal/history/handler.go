package history

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/progression"
	"github.com/2beens/repcoach/internal/telemetry/tracing"
	"github.com/2beens/repcoach/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=history_mocks_test.go -package=history_test

type historyService interface {
	LatestAssessments(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]Assessment, error)
	LatestCompletedWeights(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]float64, error)
	ProgressionProfiles(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]progression.Profile, error)
	RecordAssessment(ctx context.Context, claims identity.Claims, input NewAssessment) (*Assessment, error)
}

type AssessmentsResponse struct {
	Assessments map[int64]Assessment `json:"assessments"`
}

type WeightsResponse struct {
	Weights map[int64]float64 `json:"weights"`
}

type ProgressionsResponse struct {
	Profiles map[int64]progression.Profile `json:"profiles"`
}

// ParseExerciseIDs reads a comma separated id list, e.g. "3,7,12".
// Blank entries are skipped and duplicates are kept once.
func ParseExerciseIDs(raw string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperr.Invalid("exerciseIds", "invalid exercise id %q", part)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperr.Invalid("exerciseIds", "empty")
	}
	return ids, nil
}

type Handler struct {
	service historyService
}

func NewHandler(service historyService) *Handler {
	return &Handler{
		service: service,
	}
}

func readQuery(r *http.Request) (identity.Claims, []int64, error) {
	claims, err := identity.ClaimsFromRequest(r)
	if err != nil {
		return identity.Claims{}, nil, err
	}
	exerciseIDs, err := ParseExerciseIDs(r.URL.Query().Get("exerciseIds"))
	if err != nil {
		return identity.Claims{}, nil, err
	}
	return claims, exerciseIDs, nil
}

func (h *Handler) HandleLatestAssessments(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.assessments")
	defer span.End()

	claims, exerciseIDs, err := readQuery(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	assessments, err := h.service.LatestAssessments(ctx, claims, exerciseIDs)
	if err != nil {
		log.Errorf("latest assessments: %s", err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, AssessmentsResponse{Assessments: assessments}, http.StatusOK)
}

func (h *Handler) HandleRecordAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.recordassessment")
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

	var input NewAssessment
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Errorf("record assessment, unmarshal json params: %s", err)
		http.Error(w, "record assessment failed", http.StatusBadRequest)
		return
	}

	assessment, err := h.service.RecordAssessment(ctx, claims, input)
	if err != nil {
		log.Errorf("record assessment for exercise %d: %s", input.ExerciseID, err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, assessment, http.StatusCreated)
}

func (h *Handler) HandleLatestWeights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.weights")
	defer span.End()

	claims, exerciseIDs, err := readQuery(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	weights, err := h.service.LatestCompletedWeights(ctx, claims, exerciseIDs)
	if err != nil {
		log.Errorf("latest weights: %s", err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, WeightsResponse{Weights: weights}, http.StatusOK)
}

func (h *Handler) HandleProgressions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.progressions")
	defer span.End()

	claims, exerciseIDs, err := readQuery(r)
	if err != nil {
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	profiles, err := h.service.ProgressionProfiles(ctx, claims, exerciseIDs)
	if err != nil {
		log.Errorf("progression profiles: %s", err)
		http.Error(w, apperr.PublicMessage(err), apperr.HTTPStatus(err))
		return
	}

	pkg.WriteJSON(w, ProgressionsResponse{Profiles: profiles}, http.StatusOK)
}
