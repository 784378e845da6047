package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/repcoach/internal/history"
	"github.com/2beens/repcoach/internal/identity"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

var toolGetLatestWeights = mcp.NewTool("get_latest_weights",
	mcp.WithDescription("Returns the last lifted weight per exercise, taken from the newest session that has one. Completed weights win over planned ones."),
	mcp.WithString("exercise_ids", mcp.Required(), mcp.Description("Comma separated catalog exercise ids, e.g. 3,7,12")),
	mcp.WithNumber("user_id", mcp.Description("Explicit user id")),
	mcp.WithString("anon_key", mcp.Description("Anonymous device key")),
)

var toolGetProgressions = mcp.NewTool("get_progressions",
	mcp.WithDescription("Returns the stored progression profile per exercise: last completed weight, last RIR and the next planned weight. Needs a user."),
	mcp.WithString("exercise_ids", mcp.Required(), mcp.Description("Comma separated catalog exercise ids, e.g. 3,7,12")),
	mcp.WithNumber("user_id", mcp.Description("Explicit user id")),
)

var toolGetLatestAssessments = mcp.NewTool("get_latest_assessments",
	mcp.WithDescription("Returns the newest 1RM or working weight assessment per exercise."),
	mcp.WithString("exercise_ids", mcp.Required(), mcp.Description("Comma separated catalog exercise ids, e.g. 3,7,12")),
	mcp.WithNumber("user_id", mcp.Description("Explicit user id")),
	mcp.WithString("anon_key", mcp.Description("Anonymous device key")),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Returns the newest active workout session with all exercises and sets, or null when there is none."),
	mcp.WithNumber("user_id", mcp.Description("Explicit user id")),
	mcp.WithString("anon_key", mcp.Description("Anonymous device key")),
)

// Handler parses tool arguments, calls the history readers and formats the MCP result.
type Handler struct {
	history  historyReader
	sessions activeSessionReader
}

func NewHandler(historyReader historyReader, sessionReader activeSessionReader) *Handler {
	return &Handler{
		history:  historyReader,
		sessions: sessionReader,
	}
}

func claimsFromRequest(ctx context.Context, req mcp.CallToolRequest) (identity.Claims, error) {
	claims := identity.Claims{
		AnonKey:   req.GetString("anon_key", ""),
		Principal: identity.PrincipalFromContext(ctx),
	}
	userID := req.GetInt("user_id", 0)
	if userID < 0 {
		return identity.Claims{}, fmt.Errorf("user_id must be positive")
	}
	claims.UserID = int64(userID)
	return claims, nil
}

func exerciseIDsFromRequest(req mcp.CallToolRequest) ([]int64, error) {
	raw, err := req.RequireString("exercise_ids")
	if err != nil {
		return nil, err
	}
	return history.ParseExerciseIDs(raw)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type exerciseQuery func(ctx context.Context, claims identity.Claims, exerciseIDs []int64) (any, error)

func (h *Handler) perExercise(ctx context.Context, req mcp.CallToolRequest, tool string, query exerciseQuery) (*mcp.CallToolResult, error) {
	claims, err := claimsFromRequest(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exerciseIDs, err := exerciseIDsFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError("invalid exercise_ids: " + err.Error()), nil
	}

	res, err := query(ctx, claims, exerciseIDs)
	if err != nil {
		log.Errorf("mcp %s: %s", tool, err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(res)
}

func (h *Handler) GetLatestWeights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.perExercise(ctx, req, "get_latest_weights", func(ctx context.Context, claims identity.Claims, ids []int64) (any, error) {
		return h.history.LatestCompletedWeights(ctx, claims, ids)
	})
}

func (h *Handler) GetProgressions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.perExercise(ctx, req, "get_progressions", func(ctx context.Context, claims identity.Claims, ids []int64) (any, error) {
		return h.history.ProgressionProfiles(ctx, claims, ids)
	})
}

func (h *Handler) GetLatestAssessments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.perExercise(ctx, req, "get_latest_assessments", func(ctx context.Context, claims identity.Claims, ids []int64) (any, error) {
		return h.history.LatestAssessments(ctx, claims, ids)
	})
}

func (h *Handler) GetActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	claims, err := claimsFromRequest(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := h.sessions.LatestActive(ctx, claims)
	if err != nil {
		log.Errorf("mcp get_active_session: %s", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(session)
}
