// Package tools implements the MCP tool handlers for boardwatch.
//
// Each tool is a struct that receives its dependencies via constructor
// and exposes a Definition for registration plus a Handle compatible
// with mcp-go's CallToolRequest signature. Data tools are thin: one
// tool call maps to one Trello API call plus JSON rendering.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/boardwatch/internal/trello"
	"github.com/mark3labs/mcp-go/mcp"
)

// API is the upstream-client contract the tools depend on.
// *trello.Client satisfies it; tests use an in-memory fake.
type API interface {
	Boards(ctx context.Context) ([]trello.Board, error)
	Board(ctx context.Context, boardID string) (*trello.Board, error)
	Lists(ctx context.Context, boardID string) ([]trello.List, error)
	CreateList(ctx context.Context, boardID, name string) (*trello.List, error)
	CardsInList(ctx context.Context, listID string) ([]trello.Card, error)
	Card(ctx context.Context, cardID string) (*trello.Card, error)
	CreateCard(ctx context.Context, listID, name, desc, due string) (*trello.Card, error)
	UpdateCard(ctx context.Context, cardID string, fields trello.CardFields) (*trello.Card, error)
	MoveCard(ctx context.Context, cardID, listID string) (*trello.Card, error)
	ArchiveCard(ctx context.Context, cardID string) (*trello.Card, error)
	AddComment(ctx context.Context, cardID, text string) (*trello.Action, error)
	CardComments(ctx context.Context, cardID string, limit int) ([]trello.Action, error)
	BoardLabels(ctx context.Context, boardID string) ([]trello.Label, error)
	AddLabel(ctx context.Context, cardID, labelID string) error
	RemoveLabel(ctx context.Context, cardID, labelID string) error
	RecentActivity(ctx context.Context, boardID string, limit int) ([]trello.Action, error)
	Attachments(ctx context.Context, cardID string) ([]trello.Attachment, error)
}

// jsonResult renders v as pretty-printed JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// upstreamError wraps an upstream failure as a tool error result so the
// caller sees the Trello status and message rather than a protocol error.
func upstreamError(op string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", op, err))
}

// splitIDs parses a comma-separated id list, dropping blanks.
func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
