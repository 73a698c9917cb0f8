package tools

import (
	"context"
	"strings"

	"github.com/HendryAvila/boardwatch/internal/trello"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetCardsInListTool handles the get_cards_in_list MCP tool.
type GetCardsInListTool struct {
	api API
}

// NewGetCardsInListTool creates a GetCardsInListTool.
func NewGetCardsInListTool(api API) *GetCardsInListTool {
	return &GetCardsInListTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetCardsInListTool) Definition() mcp.Tool {
	return mcp.NewTool("get_cards_in_list",
		mcp.WithDescription("List the open cards in a Trello list."),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The id of the list whose cards to fetch."),
		),
	)
}

// Handle processes the get_cards_in_list tool call.
func (t *GetCardsInListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID := strings.TrimSpace(req.GetString("list_id", ""))
	if listID == "" {
		return mcp.NewToolResultError("'list_id' is required"), nil
	}

	cards, err := t.api.CardsInList(ctx, listID)
	if err != nil {
		return upstreamError("fetching cards", err), nil
	}
	return jsonResult(cards)
}

// GetCardTool handles the get_card MCP tool.
type GetCardTool struct {
	api API
}

// NewGetCardTool creates a GetCardTool.
func NewGetCardTool(api API) *GetCardTool {
	return &GetCardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *GetCardTool) Definition() mcp.Tool {
	return mcp.NewTool("get_card",
		mcp.WithDescription("Fetch one Trello card by id, including its labels and due date."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card to fetch."),
		),
	)
}

// Handle processes the get_card tool call.
func (t *GetCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	card, err := t.api.Card(ctx, cardID)
	if err != nil {
		return upstreamError("fetching card", err), nil
	}
	return jsonResult(card)
}

// CreateCardTool handles the create_card MCP tool.
type CreateCardTool struct {
	api API
}

// NewCreateCardTool creates a CreateCardTool.
func NewCreateCardTool(api API) *CreateCardTool {
	return &CreateCardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("create_card",
		mcp.WithDescription("Create a new card at the bottom of a Trello list."),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The id of the list to add the card to."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The card's title."),
		),
		mcp.WithString("description",
			mcp.Description("Optional card description (markdown)."),
		),
		mcp.WithString("due",
			mcp.Description("Optional due date in ISO 8601 format."),
		),
	)
}

// Handle processes the create_card tool call.
func (t *CreateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID := strings.TrimSpace(req.GetString("list_id", ""))
	name := strings.TrimSpace(req.GetString("name", ""))
	if listID == "" {
		return mcp.NewToolResultError("'list_id' is required"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	card, err := t.api.CreateCard(ctx, listID, name, req.GetString("description", ""), req.GetString("due", ""))
	if err != nil {
		return upstreamError("creating card", err), nil
	}
	return jsonResult(card)
}

// UpdateCardTool handles the update_card MCP tool.
type UpdateCardTool struct {
	api API
}

// NewUpdateCardTool creates an UpdateCardTool.
func NewUpdateCardTool(api API) *UpdateCardTool {
	return &UpdateCardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("update_card",
		mcp.WithDescription("Update a card's name, description, or due date. Omitted fields are left unchanged."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card to update."),
		),
		mcp.WithString("name",
			mcp.Description("New card title."),
		),
		mcp.WithString("description",
			mcp.Description("New card description."),
		),
		mcp.WithString("due",
			mcp.Description("New due date in ISO 8601 format."),
		),
	)
}

// Handle processes the update_card tool call.
func (t *UpdateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	fields := trello.CardFields{
		Name: req.GetString("name", ""),
		Desc: req.GetString("description", ""),
		Due:  req.GetString("due", ""),
	}
	if fields.Name == "" && fields.Desc == "" && fields.Due == "" {
		return mcp.NewToolResultError("at least one of 'name', 'description', or 'due' must be provided"), nil
	}

	card, err := t.api.UpdateCard(ctx, cardID, fields)
	if err != nil {
		return upstreamError("updating card", err), nil
	}
	return jsonResult(card)
}

// MoveCardTool handles the move_card MCP tool.
type MoveCardTool struct {
	api API
}

// NewMoveCardTool creates a MoveCardTool.
func NewMoveCardTool(api API) *MoveCardTool {
	return &MoveCardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *MoveCardTool) Definition() mcp.Tool {
	return mcp.NewTool("move_card",
		mcp.WithDescription("Move a card to another list on the same board."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card to move."),
		),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The id of the destination list."),
		),
	)
}

// Handle processes the move_card tool call.
func (t *MoveCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	listID := strings.TrimSpace(req.GetString("list_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}
	if listID == "" {
		return mcp.NewToolResultError("'list_id' is required"), nil
	}

	card, err := t.api.MoveCard(ctx, cardID, listID)
	if err != nil {
		return upstreamError("moving card", err), nil
	}
	return jsonResult(card)
}

// ArchiveCardTool handles the archive_card MCP tool.
type ArchiveCardTool struct {
	api API
}

// NewArchiveCardTool creates an ArchiveCardTool.
func NewArchiveCardTool(api API) *ArchiveCardTool {
	return &ArchiveCardTool{api: api}
}

// Definition returns the MCP tool definition for registration.
func (t *ArchiveCardTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_card",
		mcp.WithDescription("Archive (close) a Trello card. Archived cards disappear from lists and watches."),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("The id of the card to archive."),
		),
	)
}

// Handle processes the archive_card tool call.
func (t *ArchiveCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := strings.TrimSpace(req.GetString("card_id", ""))
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	card, err := t.api.ArchiveCard(ctx, cardID)
	if err != nil {
		return upstreamError("archiving card", err), nil
	}
	return jsonResult(card)
}
