//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/2beens/repcoach/internal/auth"
	"github.com/2beens/repcoach/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		creds              auth.Credentials
		expectedStatusCode int
	}{
		"good creds": {
			creds:              auth.Credentials{Username: testUsername, Password: testPassword},
			expectedStatusCode: http.StatusOK,
		},
		"wrong password": {
			creds:              auth.Credentials{Username: testUsername, Password: "nope"},
			expectedStatusCode: http.StatusUnauthorized,
		},
		"unknown user": {
			creds:              auth.Credentials{Username: "someone", Password: testPassword},
			expectedStatusCode: http.StatusUnauthorized,
		},
		"empty creds": {
			creds:              auth.Credentials{},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var resp auth.LoginResponse
			status := doRequest(ctx, t, "POST", "/a/login", tc.creds, requestOpts{}, &resp)
			require.Equal(t, tc.expectedStatusCode, status)
			if status == http.StatusOK {
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func (s *IntegrationTestSuite) TestLoginMeLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Equal(t, http.StatusUnauthorized, doRequest(ctx, t, "GET", "/me", nil, requestOpts{}, nil))

	token := doLogin(ctx, t)

	var me identity.User
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/me", nil, requestOpts{token: token}, &me))
	assert.Equal(t, testUsername, me.Subject)
	assert.Equal(t, "Test User", me.DisplayName)
	assert.Positive(t, me.ID)

	// same principal, same durable user
	var again identity.User
	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/me", nil, requestOpts{token: token}, &again))
	assert.Equal(t, me.ID, again.ID)

	require.Equal(t, http.StatusOK, doRequest(ctx, t, "GET", "/a/logout", nil, requestOpts{token: token}, nil))
	assert.Equal(t, http.StatusUnauthorized, doRequest(ctx, t, "GET", "/me", nil, requestOpts{token: token}, nil))
}
