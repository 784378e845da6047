//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/repcoach/internal/catalog"
	"github.com/2beens/repcoach/internal/events"
	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/sessions"
	"github.com/2beens/repcoach/internal/templates"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) createTemplate(ctx context.Context, token string) templates.Template {
	t := s.T()

	var created templates.Template
	status := doRequest(ctx, t, "POST", "/templates", templates.Template{
		Name:        gofakeit.Name(),
		Description: gofakeit.Sentence(6),
		BodyPart:    "legs",
		DefaultUnit: catalog.UnitKg,
		Items: []templates.Item{
			{ExerciseID: s.squatID, Order: 0, Sets: []templates.SetSpec{{Reps: 5}, {Reps: 5}}},
			{ExerciseID: s.pushUpID, Order: 1, Sets: []templates.SetSpec{{Reps: 12}}},
		},
	}, requestOpts{token: token}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Positive(t, created.ID)
	return created
}

func (s *IntegrationTestSuite) TestCatalog() {
	t := s.T()
	ctx := context.Background()

	var list catalog.ListResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/exercises?bodyPart=legs", nil, requestOpts{}, &list))
	require.Len(t, list.Exercises, 1)
	assert.Equal(t, "Back Squat", list.Exercises[0].Name)

	var squat catalog.Exercise
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", fmt.Sprintf("/exercises/%d", s.squatID), nil, requestOpts{}, &squat))
	require.NotNil(t, squat.LoadingMode)
	assert.Equal(t, catalog.LoadingModeBar, *squat.LoadingMode)

	assert.Equal(t, http.StatusNotFound, doRequest(ctx, t, "GET", "/exercises/999999", nil, requestOpts{}, nil))
}

func (s *IntegrationTestSuite) TestTemplates() {
	t := s.T()
	ctx := context.Background()
	token := doLogin(ctx, t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(ctx, t, "POST", "/templates", templates.Template{}, requestOpts{}, nil))
	assert.Equal(t, http.StatusBadRequest, doRequest(ctx, t, "POST", "/templates", templates.Template{
		Name:     "broken",
		BodyPart: "legs",
		Items:    []templates.Item{{ExerciseID: 999999, Sets: []templates.SetSpec{{Reps: 5}}}},
	}, requestOpts{token: token}, nil))

	created := s.createTemplate(ctx, token)

	newName := "Legs Heavy"
	var updated templates.Template
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "PUT", fmt.Sprintf("/templates/%d", created.ID),
		templates.Update{Name: &newName}, requestOpts{token: token}, &updated))
	assert.Equal(t, newName, updated.Name)
	assert.Len(t, updated.Items, 2)

	var fetched templates.Template
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", fmt.Sprintf("/templates/%d", created.ID), nil, requestOpts{}, &fetched))
	assert.Equal(t, newName, fetched.Name)

	require.Equal(t, http.StatusOK, doRequest(ctx, t, "DELETE", fmt.Sprintf("/templates/%d", created.ID), nil, requestOpts{token: token}, nil))
	assert.Equal(t, http.StatusNotFound, doRequest(ctx, t, "GET", fmt.Sprintf("/templates/%d", created.ID), nil, requestOpts{}, nil))
}

func (s *IntegrationTestSuite) TestWorkoutSession_SignedIn() {
	t := s.T()
	ctx := context.Background()
	token := doLogin(ctx, t)
	opts := requestOpts{token: token}
	tmpl := s.createTemplate(ctx, token)

	var started sessions.StartResponse
	require.Equal(t, http.StatusCreated, doRequest(ctx, t, "POST", "/sessions", sessions.StartRequest{
		TemplateID:     tmpl.ID,
		PlannedWeights: map[string]float64{fmt.Sprint(s.squatID): 100},
	}, opts, &started))

	var active sessions.ActiveResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/sessions/active", nil, opts, &active))
	require.NotNil(t, active.Session)
	assert.Equal(t, started.ID, active.Session.ID)
	require.Len(t, active.Session.Exercises, 2)
	assert.Equal(t, sessions.LoadBasisBodyweight, active.Session.Exercises[1].LoadBasis)

	sessionPath := "/sessions/" + started.ID
	reps, weight := 5, 100.0
	for setIdx := 0; setIdx < 2; setIdx++ {
		status := doRequest(ctx, t, "POST", fmt.Sprintf("%s/exercises/0/sets/%d/done", sessionPath, setIdx),
			sessions.MarkSetDoneRequest{Reps: &reps, Weight: &weight}, opts, nil)
		require.Equal(t, http.StatusOK, status)
	}

	rir := 3.0
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "POST", sessionPath+"/exercises/0/effort",
		sessions.EffortRequest{RIR: &rir}, opts, nil))

	var completed sessions.Session
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "POST", sessionPath+"/complete", nil, opts, &completed))
	assert.Equal(t, sessions.StatusCompleted, completed.Status)
	require.NotNil(t, completed.UserID)

	// completed sessions are frozen
	assert.Equal(t, http.StatusConflict, doRequest(ctx, t, "POST", sessionPath+"/exercises/1/sets/0/done", nil, opts, nil))

	var progressions history.ProgressionsResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET",
		fmt.Sprintf("/history/progressions?exerciseIds=%d", s.squatID), nil, opts, &progressions))
	profile, ok := progressions.Profiles[s.squatID]
	require.True(t, ok)
	require.NotNil(t, profile.LastRIR)
	assert.Equal(t, 3.0, *profile.LastRIR)
	require.NotNil(t, profile.NextPlannedWeightKg)

	var weights history.WeightsResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET",
		fmt.Sprintf("/history/weights?exerciseIds=%d", s.squatID), nil, opts, &weights))
	assert.Equal(t, 100.0, weights.Weights[s.squatID])

	var journal events.ListResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", sessionPath+"/events", nil, opts, &journal))
	// start, 2 sets, effort, complete
	assert.Equal(t, 5, journal.Total)
	assert.Equal(t, events.EventTypeSessionStarted, journal.Events[0].Type)

	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/sessions/active", nil, opts, &active))
	assert.Nil(t, active.Session)
}

func (s *IntegrationTestSuite) TestAssessments_Anonymous() {
	t := s.T()
	ctx := context.Background()
	opts := requestOpts{anonKey: "integration-phone-" + gofakeit.UUID()}

	require.Equal(t, http.StatusCreated, doRequest(ctx, t, "POST", "/history/assessments", history.NewAssessment{
		ExerciseID: s.squatID,
		Type:       history.AssessmentTypeOneRepMax,
		Value:      140,
		Unit:       catalog.UnitKg,
	}, opts, nil))
	require.Equal(t, http.StatusCreated, doRequest(ctx, t, "POST", "/history/assessments", history.NewAssessment{
		ExerciseID: s.squatID,
		Type:       history.AssessmentTypeOneRepMax,
		Value:      145,
		Unit:       catalog.UnitKg,
	}, opts, nil))

	var latest history.AssessmentsResponse
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET",
		fmt.Sprintf("/history/assessments?exerciseIds=%d,%d", s.squatID, s.pushUpID), nil, opts, &latest))
	require.Len(t, latest.Assessments, 1)
	assert.Equal(t, 145.0, latest.Assessments[s.squatID].Value)

	assert.Equal(t, http.StatusBadRequest, doRequest(ctx, t, "GET", "/history/assessments?exerciseIds=abc", nil, opts, nil))
}
