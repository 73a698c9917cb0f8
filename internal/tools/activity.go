package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultActivityLimit bounds get_recent_activity when no limit is given.
const defaultActivityLimit = 50

// GetRecentActivityTool handles the get_recent_activity MCP tool.
type GetRecentActivityTool struct {
	api API
}

// NewGetRecentActivityTool creates a GetRecentActivityTool.
func NewGetRecentActivityTool(api API) *GetRecentActivityTool {
	return &GetRecentActivityTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetRecentActivityTool) Definition() mcp.Tool {
	return mcp.NewTool("get_recent_activity",
		mcp.WithDescription("Fetch a board's recent activity feed (comments, moves, updates), newest first."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board whose activity to fetch."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 50)."),
		),
	)
}

// Handle processes the get_recent_activity tool call.
func (t *GetRecentActivityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	limit := int(req.GetFloat("limit", defaultActivityLimit))
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	actions, err := t.api.RecentActivity(ctx, boardID, limit)
	if err != nil {
		return upstreamError("fetching activity", err), nil
	}
	return jsonResult(actions)
}
