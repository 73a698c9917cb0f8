package tools

import (
	"context"
	"strings"

	"github.com/HendryAvila/boardwatch/internal/attachments"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListAttachmentsTool handles the list_attachments MCP tool. It shows
// both the card's attachments on Trello and any local copies.
type ListAttachmentsTool struct {
	api API
	mgr *attachments.Manager
}

// NewListAttachmentsTool creates a ListAttachmentsTool.
func NewListAttachmentsTool(api API, mgr *attachments.Manager) *ListAttachmentsTool {
	return &ListAttachmentsTool{api: api, mgr: mgr}
}

// Definition returns the MCP tool definition for registration.
func (t *ListAttachmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_attachments",
		mcp.WithDescription("List a card's attachments on Trello, plus any copies already downloaded locally."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card whose attachments to list."),
		),
	)
}

// Handle processes the list_attachments tool call.
func (t *ListAttachmentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	remote, err := t.api.Attachments(ctx, cardID)
	if err != nil {
		return upstreamError("fetching attachments", err), nil
	}
	local, err := t.mgr.List(cardID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"remote": remote,
		"local":  local,
	})
}

// DownloadAttachmentTool handles the download_attachment MCP tool.
type DownloadAttachmentTool struct {
	api API
	mgr *attachments.Manager
}

// NewDownloadAttachmentTool creates a DownloadAttachmentTool.
func NewDownloadAttachmentTool(api API, mgr *attachments.Manager) *DownloadAttachmentTool {
	return &DownloadAttachmentTool{api: api, mgr: mgr}
}

// Definition returns the MCP tool definition for registration.
func (t *DownloadAttachmentTool) Definition() mcp.Tool {
	return mcp.NewTool("download_attachment",
		mcp.WithDescription("Download one of a card's attachments to the local attachment directory and return its path."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card the attachment belongs to."),
		),
		mcp.WithString("attachment_id",
			mcp.Required(),
			mcp.Description("The id of the attachment to download."),
		),
	)
}

// Handle processes the download_attachment tool call.
func (t *DownloadAttachmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	attachmentID := strings.TrimSpace(req.GetString("attachment_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if attachmentID == "" {
		return mcp.NewToolResultError("'attachment_id' is required"), nil
	}

	atts, err := t.api.Attachments(ctx, cardID)
	if err != nil {
		return upstreamError("fetching attachments", err), nil
	}
	for _, att := range atts {
		if att.ID != attachmentID {
			continue
		}
		path, err := t.mgr.Download(ctx, cardID, att)
		if err != nil {
			return upstreamError("downloading attachment", err), nil
		}
		return jsonResult(map[string]string{"path": path})
	}
	return mcp.NewToolResultError("attachment " + attachmentID + " not found on card " + cardID), nil
}

// DeleteLocalAttachmentTool handles the delete_local_attachment MCP tool.
// It only touches local disk; the attachment stays on Trello.
type DeleteLocalAttachmentTool struct {
	mgr *attachments.Manager
}

// NewDeleteLocalAttachmentTool creates a DeleteLocalAttachmentTool.
func NewDeleteLocalAttachmentTool(mgr *attachments.Manager) *DeleteLocalAttachmentTool {
	return &DeleteLocalAttachmentTool{mgr: mgr}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteLocalAttachmentTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_local_attachment",
		mcp.WithDescription("Delete a previously downloaded attachment file from local disk. Does not touch Trello."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card the file was downloaded for."),
		),
		mcp.WithString("filename",
			mcp.Required(),
			mcp.Description("The local filename as returned by list_attachments."),
		),
	)
}

// Handle processes the delete_local_attachment tool call.
func (t *DeleteLocalAttachmentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	filename := strings.TrimSpace(req.GetString("filename", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if filename == "" {
		return mcp.NewToolResultError("'filename' is required"), nil
	}

	if err := t.mgr.Delete(cardID, filename); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + filename), nil
}
