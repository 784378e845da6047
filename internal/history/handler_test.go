package history_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/repcoach/internal/apperr"
	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/progression"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(h *history.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/history/assessments", h.HandleLatestAssessments).Methods("GET")
	r.HandleFunc("/history/assessments", h.HandleRecordAssessment).Methods("POST")
	r.HandleFunc("/history/weights", h.HandleLatestWeights).Methods("GET")
	r.HandleFunc("/history/progressions", h.HandleProgressions).Methods("GET")
	return r
}

func TestParseExerciseIDs(t *testing.T) {
	ids, err := history.ParseExerciseIDs("3, 7,,3,12")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7, 12}, ids)

	for _, raw := range []string{"", " , ", "3,x", "0", "-2"} {
		_, err := history.ParseExerciseIDs(raw)
		assert.ErrorIs(t, err, apperr.ErrValidationFailed, raw)
	}
}

func TestHandler_HandleLatestWeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockhistoryService(ctrl)
	router := newTestRouter(history.NewHandler(serviceMock))

	serviceMock.EXPECT().
		LatestCompletedWeights(gomock.Any(), identity.Claims{AnonKey: "anon-1"}, []int64{1, 2}).
		Return(map[int64]float64{1: 62.5}, nil).
		Times(1)

	req := httptest.NewRequest("GET", "/history/weights?exerciseIds=1,2", nil)
	req.Header.Set(identity.AnonKeyHeader, "anon-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp history.WeightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, map[int64]float64{1: 62.5}, resp.Weights)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/weights?exerciseIds=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/weights?exerciseIds=1&userId=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleLatestAssessments(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockhistoryService(ctrl)
	router := newTestRouter(history.NewHandler(serviceMock))

	serviceMock.EXPECT().
		LatestAssessments(gomock.Any(), identity.Claims{UserID: 4}, []int64{3}).
		Return(map[int64]history.Assessment{
			3: {ID: 9, ExerciseID: 3, Type: history.AssessmentTypeOneRepMax, Value: 120, Unit: catalog.UnitKg},
		}, nil).
		Times(1)
	serviceMock.EXPECT().
		LatestAssessments(gomock.Any(), identity.Claims{}, []int64{3}).
		Return(nil, apperr.ErrUnresolvable).
		Times(1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/assessments?exerciseIds=3&userId=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp history.AssessmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Assessments, int64(3))
	assert.Equal(t, 120.0, resp.Assessments[3].Value)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/assessments?exerciseIds=3", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_HandleRecordAssessment(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockhistoryService(ctrl)
	router := newTestRouter(history.NewHandler(serviceMock))

	input := history.NewAssessment{ExerciseID: 3, Type: history.AssessmentTypeWorking, Value: 70, Unit: catalog.UnitLbs}
	serviceMock.EXPECT().
		RecordAssessment(gomock.Any(), identity.Claims{AnonKey: "anon-1"}, input).
		DoAndReturn(func(ctx context.Context, claims identity.Claims, in history.NewAssessment) (*history.Assessment, error) {
			return &history.Assessment{ID: 1, AnonKey: claims.AnonKey, ExerciseID: in.ExerciseID, Type: in.Type, Value: in.Value, Unit: in.Unit}, nil
		}).
		Times(1)

	body, err := json.Marshal(input)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/history/assessments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.AnonKeyHeader, "anon-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added history.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, int64(1), added.ID)
	assert.Equal(t, catalog.UnitLbs, added.Unit)

	req = httptest.NewRequest("POST", "/history/assessments", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/history/assessments", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleProgressions(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockhistoryService(ctrl)
	router := newTestRouter(history.NewHandler(serviceMock))

	next := 82.5
	serviceMock.EXPECT().
		ProgressionProfiles(gomock.Any(), identity.Claims{UserID: 1}, []int64{3}).
		Return(map[int64]progression.Profile{3: {UserID: 1, ExerciseID: 3, NextPlannedWeightKg: &next}}, nil).
		Times(1)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/history/progressions?exerciseIds=3&userId=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp history.ProgressionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Profiles[3].NextPlannedWeightKg)
	assert.Equal(t, 82.5, *resp.Profiles[3].NextPlannedWeightKg)
}
