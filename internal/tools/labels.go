package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetBoardLabelsTool handles the get_board_labels MCP tool.
type GetBoardLabelsTool struct {
	api API
}

// NewGetBoardLabelsTool creates a GetBoardLabelsTool.
func NewGetBoardLabelsTool(api API) *GetBoardLabelsTool {
	return &GetBoardLabelsTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetBoardLabelsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board_labels",
		mcp.WithDescription("List the labels defined on a Trello board."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board whose labels to fetch."),
		),
	)
}

// Handle processes the get_board_labels tool call.
func (t *GetBoardLabelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	labels, err := t.api.BoardLabels(ctx, boardID)
	if err != nil {
		return upstreamError("fetching labels", err), nil
	}
	return jsonResult(labels)
}

// AddLabelTool handles the add_label_to_card MCP tool.
type AddLabelTool struct {
	api API
}

// NewAddLabelTool creates an AddLabelTool.
func NewAddLabelTool(api API) *AddLabelTool {
	return &AddLabelTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *AddLabelTool) Definition() mcp.Tool {
	return mcp.NewTool("add_label_to_card",
		mcp.WithDescription("Attach a board label to a card."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card."),
		),
		mcp.WithString("label_id",
			mcp.Required(),
			mcp.Description("The id of the label to attach."),
		),
	)
}

// Handle processes the add_label_to_card tool call.
func (t *AddLabelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	labelID := strings.TrimSpace(req.GetString("label_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if labelID == "" {
		return mcp.NewToolResultError("'label_id' is required"), nil
	}

	if err := t.api.AddLabel(ctx, cardID, labelID); err != nil {
		return upstreamError("adding label", err), nil
	}
	return mcp.NewToolResultText("label added"), nil
}

// RemoveLabelTool handles the remove_label_from_card MCP tool.
type RemoveLabelTool struct {
	api API
}

// NewRemoveLabelTool creates a RemoveLabelTool.
func NewRemoveLabelTool(api API) *RemoveLabelTool {
	return &RemoveLabelTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *RemoveLabelTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_label_from_card",
		mcp.WithDescription("Detach a label from a card."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card."),
		),
		mcp.WithString("label_id",
			mcp.Required(),
			mcp.Description("The id of the label to detach."),
		),
	)
}

// Handle processes the remove_label_from_card tool call.
func (t *RemoveLabelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	labelID := strings.TrimSpace(req.GetString("label_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if labelID == "" {
		return mcp.NewToolResultError("'label_id' is required"), nil
	}

	if err := t.api.RemoveLabel(ctx, cardID, labelID); err != nil {
		return upstreamError("removing label", err), nil
	}
	return mcp.NewToolResultText("label removed"), nil
}
