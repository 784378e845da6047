//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/repcoach/internal/auth"
	"github.com/2beens/repcoach/internal/identity"

	"github.com/stretchr/testify/require"
)

func pingServer() error {
	resp, err := http.Get(serverEndpoint + "/")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

type requestOpts struct {
	token   string
	anonKey string
}

// doRequest sends body as JSON and decodes a JSON response into out when
// out is not nil. It returns the status code.
func doRequest(ctx context.Context, t *testing.T, method, path string, body any, opts requestOpts, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.anonKey != "" {
		req.Header.Set(identity.AnonKeyHeader, opts.anonKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.Unmarshal(respBytes, out), string(respBytes))
	}
	return resp.StatusCode
}

func doLogin(ctx context.Context, t *testing.T) string {
	t.Helper()

	var loginResp auth.LoginResponse
	status := doRequest(ctx, t, "POST", "/a/login", auth.Credentials{
		Username: testUsername,
		Password: testPassword,
	}, requestOpts{}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}
