// Package resources implements MCP resource handlers.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (trello://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/boardwatch/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages boardwatch's resource endpoints.
type Handler struct {
	cfg *config.Config
}

// NewHandler creates a resource Handler.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// StatusResource returns the MCP resource definition for server status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"trello://config/status",
		"Boardwatch Configuration Status",
		mcp.WithResourceDescription("Which credentials are configured and where attachments are stored. Secrets are never included."),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current configuration status as JSON.
// Credential values are reduced to presence booleans.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	status := map[string]any{
		"apiKeyConfigured": h.cfg.APIKey != "",
		"tokenConfigured":  h.cfg.Token != "",
		"attachmentDir":    h.cfg.AttachmentDir,
		"logLevel":         h.cfg.LogLevel,
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
