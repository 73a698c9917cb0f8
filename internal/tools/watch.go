package tools

import (
	"context"
	"strings"
	"time"

	"github.com/HendryAvila/boardwatch/internal/watch"
	"github.com/mark3labs/mcp-go/mcp"
)

// WatchBoardChangesTool handles the watch_board_changes MCP tool. It
// blocks the call until the board shows a change (card added, moved,
// relabeled, redescribed, or commented) or the timeout elapses.
type WatchBoardChangesTool struct {
	watcher *watch.Watcher
}

// NewWatchBoardChangesTool creates a WatchBoardChangesTool.
func NewWatchBoardChangesTool(watcher *watch.Watcher) *WatchBoardChangesTool {
	return &WatchBoardChangesTool{watcher: watcher}
}

// Definition returns the MCP tool definition for registration.
func (t *WatchBoardChangesTool) Definition() mcp.Tool {
	return mcp.NewTool("watch_board_changes",
		mcp.WithDescription(
			"Poll a Trello board until something changes, then return the changes. "+
				"Detects added cards, moves between lists, label changes, description "+
				"edits, and new comments. Returns {changes: [...], timedOut: false} on "+
				"the first change, or {changes: [], timedOut: true} if nothing happens "+
				"before the timeout.",
		),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("The id of the board to watch."),
		),
		mcp.WithString("list_ids",
			mcp.Description("Optional comma-separated list ids to restrict card watching to. Omit to watch every list."),
		),
		mcp.WithNumber("poll_interval_ms",
			mcp.Description("Milliseconds between polls (default 5000)."),
		),
		mcp.WithNumber("timeout_ms",
			mcp.Description("Overall timeout in milliseconds (default 300000)."),
		),
	)
}

// Handle processes the watch_board_changes tool call.
func (t *WatchBoardChangesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := strings.TrimSpace(req.GetString("board_id", ""))
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	listIDs := splitIDs(req.GetString("list_ids", ""))
	interval := time.Duration(req.GetFloat("poll_interval_ms", 0)) * time.Millisecond
	timeout := time.Duration(req.GetFloat("timeout_ms", 0)) * time.Millisecond

	result, err := t.watcher.Watch(ctx, boardID, listIDs, interval, timeout)
	if err != nil {
		return upstreamError("watching board", err), nil
	}
	return jsonResult(result)
}
