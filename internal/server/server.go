// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the rate limiter, the Trello
// client, the watch engine, and the attachment manager, and injects them
// into the tools/prompts/resources that depend on them. No business
// logic lives here — only wiring.
package server

import (
	"github.com/HendryAvila/boardwatch/internal/attachments"
	"github.com/HendryAvila/boardwatch/internal/config"
	"github.com/HendryAvila/boardwatch/internal/prompts"
	"github.com/HendryAvila/boardwatch/internal/ratelimit"
	"github.com/HendryAvila/boardwatch/internal/resources"
	"github.com/HendryAvila/boardwatch/internal/tools"
	"github.com/HendryAvila/boardwatch/internal/trello"
	"github.com/HendryAvila/boardwatch/internal/watch"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
func New(cfg *config.Config, log *zap.Logger) *server.MCPServer {
	// --- Create shared dependencies ---

	// One limiter for the whole process: every tool call shares the
	// same per-key and per-token quotas.
	limiter := ratelimit.New()
	client := trello.NewClient(cfg.APIKey, cfg.Token, limiter, log)

	// The snapshot store outlives individual watches so consecutive
	// watches on a board don't re-report already-seen comments.
	store := watch.NewStore()
	watcher := watch.NewWatcher(client, store, log)

	attachmentMgr := attachments.NewManager(cfg.AttachmentDir, client, log)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"boardwatch",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register board and list tools ---

	listBoards := tools.NewListBoardsTool(client)
	s.AddTool(listBoards.Definition(), listBoards.Handle)

	getBoard := tools.NewGetBoardTool(client)
	s.AddTool(getBoard.Definition(), getBoard.Handle)

	getLists := tools.NewGetListsTool(client)
	s.AddTool(getLists.Definition(), getLists.Handle)

	createList := tools.NewCreateListTool(client)
	s.AddTool(createList.Definition(), createList.Handle)

	// --- Register card tools ---

	getCardsInList := tools.NewGetCardsInListTool(client)
	s.AddTool(getCardsInList.Definition(), getCardsInList.Handle)

	getCard := tools.NewGetCardTool(client)
	s.AddTool(getCard.Definition(), getCard.Handle)

	createCard := tools.NewCreateCardTool(client)
	s.AddTool(createCard.Definition(), createCard.Handle)

	updateCard := tools.NewUpdateCardTool(client)
	s.AddTool(updateCard.Definition(), updateCard.Handle)

	moveCard := tools.NewMoveCardTool(client)
	s.AddTool(moveCard.Definition(), moveCard.Handle)

	archiveCard := tools.NewArchiveCardTool(client)
	s.AddTool(archiveCard.Definition(), archiveCard.Handle)

	// --- Register comment and label tools ---

	addComment := tools.NewAddCommentTool(client)
	s.AddTool(addComment.Definition(), addComment.Handle)

	getComments := tools.NewGetCardCommentsTool(client)
	s.AddTool(getComments.Definition(), getComments.Handle)

	getLabels := tools.NewGetBoardLabelsTool(client)
	s.AddTool(getLabels.Definition(), getLabels.Handle)

	addLabel := tools.NewAddLabelTool(client)
	s.AddTool(addLabel.Definition(), addLabel.Handle)

	removeLabel := tools.NewRemoveLabelTool(client)
	s.AddTool(removeLabel.Definition(), removeLabel.Handle)

	// --- Register activity and watch tools ---

	getActivity := tools.NewGetRecentActivityTool(client)
	s.AddTool(getActivity.Definition(), getActivity.Handle)

	watchChanges := tools.NewWatchBoardChangesTool(watcher)
	s.AddTool(watchChanges.Definition(), watchChanges.Handle)

	// --- Register attachment tools ---

	listAttachments := tools.NewListAttachmentsTool(client, attachmentMgr)
	s.AddTool(listAttachments.Definition(), listAttachments.Handle)

	downloadAttachment := tools.NewDownloadAttachmentTool(client, attachmentMgr)
	s.AddTool(downloadAttachment.Definition(), downloadAttachment.Handle)

	deleteAttachment := tools.NewDeleteLocalAttachmentTool(attachmentMgr)
	s.AddTool(deleteAttachment.Definition(), deleteAttachment.Handle)

	// --- Register prompts ---

	reviewPrompt := prompts.NewBoardReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(cfg)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s
}

// serverInstructions returns the system instructions that tell the AI
// how to use boardwatch effectively.
func serverInstructions() string {
	return `You have access to boardwatch, a Trello MCP server.

## READING BOARDS

Start with list_boards to find board ids, then get_lists and
get_cards_in_list to walk a board. get_recent_activity shows what
happened lately (comments, moves, edits), newest first.

## CHANGING BOARDS

create_card / update_card / move_card / archive_card manage cards;
add_comment posts comments; add_label_to_card / remove_label_from_card
manage labels. All writes go through Trello's rate limits automatically —
you never need to pace your calls.

## WAITING FOR CHANGES

watch_board_changes blocks until something changes on a board (or a
subset of its lists) and returns structured change records:
added, moved, label_changed, description_changed, commented.
Use it when the user asks to "wait until", "watch for", or "tell me when"
something happens on a board. Default timeout is 5 minutes; pass
timeout_ms to adjust. If it returns timedOut: true, nothing changed —
say so rather than inventing changes.

## ATTACHMENTS

list_attachments shows a card's files (remote and already-downloaded),
download_attachment saves one locally and returns its path,
delete_local_attachment removes the local copy only.`
}
