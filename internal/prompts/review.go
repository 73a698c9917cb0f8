// Package prompts implements MCP prompt handlers.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// BoardReviewPrompt handles the board-review MCP prompt.
// It instructs the AI to summarize a board's current state.
type BoardReviewPrompt struct{}

// NewBoardReviewPrompt creates a BoardReviewPrompt.
func NewBoardReviewPrompt() *BoardReviewPrompt {
	return &BoardReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *BoardReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-review",
		mcp.WithPromptDescription(
			"Review a Trello board: lists, cards, labels, and recent activity, "+
				"with a short summary of what needs attention.",
		),
		mcp.WithArgument("board_id",
			mcp.ArgumentDescription("The id of the board to review."),
		),
	)
}

// Handle processes the board-review prompt request.
func (p *BoardReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	boardID := req.Params.Arguments["board_id"]

	text := "Please review my Trello board"
	if boardID != "" {
		text += " (id: " + boardID + ")"
	}
	text += ".\n\n" +
		"1. Call `get_lists` and `get_cards_in_list` for each list to see the board state\n" +
		"2. Call `get_recent_activity` to see what changed lately\n" +
		"3. Summarize each list briefly (count, notable cards, due dates)\n" +
		"4. Point out anything that looks stuck or needs attention"

	return &mcp.GetPromptResult{
		Description: "Trello Board Review",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}
