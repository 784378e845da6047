// Package mcp exposes the read side of the workout history as MCP tools.
package mcp

import (
	"context"
	"net/http"

	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/identity"
	"github.com/2beens/repcoach/internal/progression"
	"github.com/2beens/repcoach/internal/sessions"

	"github.com/mark3labs/mcp-go/server"
)

type historyReader interface {
	LatestCompletedWeights(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]float64, error)
	ProgressionProfiles(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]progression.Profile, error)
	LatestAssessments(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (map[int64]history.Assessment, error)
}

type activeSessionReader interface {
	LatestActive(ctx context.Context, claims identity.Claims) (*sessions.Session, error)
}

// New builds an MCP server with the read-only workout tools: latest weights,
// progression profiles, latest assessments and the active session.
func New(historyReader historyReader, sessionReader activeSessionReader, version string) *server.MCPServer {
	s := server.NewMCPServer("repcoach-history", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("RepCoach workout history. All tools are read-only and scoped by user_id or anon_key; "+
			"a signed in caller on the HTTP transport is used when neither is given."),
	)

	h := NewHandler(historyReader, sessionReader)
	s.AddTools(
		server.ServerTool{Tool: toolGetLatestWeights, Handler: h.GetLatestWeights},
		server.ServerTool{Tool: toolGetProgressions, Handler: h.GetProgressions},
		server.ServerTool{Tool: toolGetLatestAssessments, Handler: h.GetLatestAssessments},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.GetActiveSession},
	)

	return s
}

// NewHTTPHandler serves the tools over the streamable HTTP transport. The
// principal put on the request by the auth middleware is carried into the
// tool call context.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return identity.ContextWithPrincipal(ctx, identity.PrincipalFromContext(r.Context()))
		}),
	)
}
