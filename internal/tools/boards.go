package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListBoardsTool handles the list_boards MCP tool.
type ListBoardsTool struct {
	api API
}

// NewListBoardsTool creates a ListBoardsTool.
func NewListBoardsTool(api API) *ListBoardsTool {
	return &ListBoardsTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *ListBoardsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_boards",
		mcp.WithDescription("List all Trello boards visible to the configured credentials, with their ids, names, and URLs."),
	)
}

// Handle processes the list_boards tool call.
func (t *ListBoardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := t.api.Boards(ctx)
	if err != nil {
		return upstreamError("listing boards", err), nil
	}
	return jsonResult(boards)
}

// GetBoardTool handles the get_board MCP tool.
type GetBoardTool struct {
	api API
}

// NewGetBoardTool creates a GetBoardTool.
func NewGetBoardTool(api API) *GetBoardTool {
	return &GetBoardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board",
		mcp.WithDescription("Fetch one Trello board by id."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board to fetch."),
		),
	)
}

// Handle processes the get_board tool call.
func (t *GetBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	board, err := t.api.Board(ctx, boardID)
	if err != nil {
		return upstreamError("fetching board", err), nil
	}
	return jsonResult(board)
}
