package watch

import (
	"strings"

	"github.com/HendryAvila/boardwatch/internal/trello"
)

// ChangeType discriminates Change variants.
type ChangeType string

// Change variants, in the order the detector checks them.
const (
	TypeAdded              ChangeType = "added"
	TypeMoved              ChangeType = "moved"
	TypeLabelsChanged      ChangeType = "label_changed"
	TypeDescriptionChanged ChangeType = "description_changed"
	TypeCommented          ChangeType = "commented"
)

// automationMarker identifies comments posted by an automated agent.
const automationMarker = "🤖 by Claude Code"

// Change is one detected difference between two snapshots. Type selects
// which of the variant fields are populated; common fields always
// describe the card's current state.
type Change struct {
	Type        ChangeType `json:"type"`
	CardID      string     `json:"cardId"`
	CardName    string     `json:"cardName"`
	Description string     `json:"description"`
	ListID      string     `json:"listId"`
	ListName    string     `json:"listName"`
	Labels      []string   `json:"labels"`

	// moved
	PrevListID string `json:"prevListId,omitempty"`
	// label_changed
	PrevLabels []string `json:"prevLabels,omitempty"`
	// commented
	Comment         string `json:"comment,omitempty"`
	IsClaudeComment bool   `json:"isClaudeComment,omitempty"`
}

// Detect computes the ordered changes between two snapshots of the same
// board. Comment changes come first (newest activity first), followed by
// per-card changes in curr's capture order. A card may contribute several
// changes in one cycle, except that a freshly added card reports only
// "added". Cards that disappeared (archived or deleted) are not reported.
//
// actions must be the board's recent activity, newest first. Detect
// records on curr the newest activity id it scanned so the next cycle
// only looks at genuinely new entries; given identical inputs the output
// is exactly reproducible.
func Detect(prev, curr *BoardSnapshot, listNames map[string]string, actions []trello.Action) []Change {
	var changes []Change

	// Carry the watermark forward; overwritten below if anything new
	// was scanned this cycle.
	curr.LastActivityID = prev.LastActivityID

	scanned := 0
	for _, action := range actions {
		if prev.LastActivityID != "" && action.ID <= prev.LastActivityID {
			break
		}
		scanned++

		if action.Type != trello.ActionCommentCard {
			continue
		}
		card, ok := curr.Cards[action.Data.Card.ID]
		if !ok {
			continue
		}
		changes = append(changes, Change{
			Type:            TypeCommented,
			CardID:          card.ID,
			CardName:        card.Name,
			Description:     card.Desc,
			ListID:          card.ListID,
			ListName:        listNames[card.ListID],
			Labels:          card.Labels,
			Comment:         action.Data.Text,
			IsClaudeComment: strings.Contains(action.Data.Text, automationMarker),
		})
	}
	if scanned > 0 {
		curr.LastActivityID = actions[0].ID
	}

	for _, id := range curr.CardOrder {
		card := curr.Cards[id]
		base := Change{
			CardID:      card.ID,
			CardName:    card.Name,
			Description: card.Desc,
			ListID:      card.ListID,
			ListName:    listNames[card.ListID],
			Labels:      card.Labels,
		}

		old, existed := prev.Cards[id]
		if !existed {
			added := base
			added.Type = TypeAdded
			changes = append(changes, added)
			continue
		}

		if old.ListID != card.ListID {
			moved := base
			moved.Type = TypeMoved
			moved.PrevListID = old.ListID
			changes = append(changes, moved)
		}
		if old.labelKey() != card.labelKey() {
			relabeled := base
			relabeled.Type = TypeLabelsChanged
			relabeled.PrevLabels = old.Labels
			changes = append(changes, relabeled)
		}
		if old.Desc != card.Desc {
			redescribed := base
			redescribed.Type = TypeDescriptionChanged
			changes = append(changes, redescribed)
		}
	}

	return changes
}
