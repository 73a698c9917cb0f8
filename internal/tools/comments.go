package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultCommentLimit bounds get_card_comments when no limit is given.
const defaultCommentLimit = 20

// AddCommentTool handles the add_comment MCP tool.
type AddCommentTool struct {
	api API
}

// NewAddCommentTool creates an AddCommentTool.
func NewAddCommentTool(api API) *AddCommentTool {
	return &AddCommentTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Post a comment on a Trello card."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card to comment on."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The comment text (markdown)."),
		),
	)
}

// Handle processes the add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	text := req.GetString("text", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	action, err := t.api.AddComment(ctx, cardID, text)
	if err != nil {
		return upstreamError("adding comment", err), nil
	}
	return jsonResult(action)
}

// GetCardCommentsTool handles the get_card_comments MCP tool.
type GetCardCommentsTool struct {
	api API
}

// NewGetCardCommentsTool creates a GetCardCommentsTool.
func NewGetCardCommentsTool(api API) *GetCardCommentsTool {
	return &GetCardCommentsTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetCardCommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_card_comments",
		mcp.WithDescription("Fetch a card's comments, newest first."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card whose comments to fetch."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of comments to return (default 20)."),
		),
	)
}

// Handle processes the get_card_comments tool call.
func (t *GetCardCommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	limit := int(req.GetFloat("limit", defaultCommentLimit))
	if limit <= 0 {
		limit = defaultCommentLimit
	}

	actions, err := t.api.CardComments(ctx, cardID, limit)
	if err != nil {
		return upstreamError("fetching comments", err), nil
	}
	return jsonResult(actions)
}
