package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetListsTool handles the get_lists MCP tool.
type GetListsTool struct {
	api API
}

// NewGetListsTool creates a GetListsTool.
func NewGetListsTool(api API) *GetListsTool {
	return &GetListsTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetListsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_lists",
		mcp.WithDescription("List the open lists (columns) on a Trello board."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board whose lists to fetch."),
		),
	)
}

// Handle processes the get_lists tool call.
func (t *GetListsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	lists, err := t.api.Lists(ctx, boardID)
	if err != nil {
		return upstreamError("fetching lists", err), nil
	}
	return jsonResult(lists)
}

// CreateListTool handles the create_list MCP tool.
type CreateListTool struct {
	api API
}

// NewCreateListTool creates a CreateListTool.
func NewCreateListTool(api API) *CreateListTool {
	return &CreateListTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateListTool) Definition() mcp.Tool {
	return mcp.NewTool("create_list",
		mcp.WithDescription("Create a new list at the bottom of a Trello board."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board to add the list to."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new list."),
		),
	)
}

// Handle processes the create_list tool call.
func (t *CreateListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	name := strings.TrimSpace(req.GetString("name", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	list, err := t.api.CreateList(ctx, boardID, name)
	if err != nil {
		return upstreamError("creating list", err), nil
	}
	return jsonResult(list)
}
