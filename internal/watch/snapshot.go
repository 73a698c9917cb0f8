// Package watch implements poll-based change detection for Trello boards.
//
// Trello has no native "block until something changed" primitive, so the
// watcher repeatedly snapshots a board's observable state and diffs
// consecutive snapshots, folding in the board's activity feed to catch
// comments (which leave no trace on card fields).
package watch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HendryAvila/boardwatch/internal/trello"
)

// BoardFetcher is the slice of the Trello client the watch engine needs.
// *trello.Client satisfies it; tests substitute an in-memory fake.
type BoardFetcher interface {
	Lists(ctx context.Context, boardID string) ([]trello.List, error)
	CardsInList(ctx context.Context, listID string) ([]trello.Card, error)
	RecentActivity(ctx context.Context, boardID string, limit int) ([]trello.Action, error)
}

// CardSnapshot is one card's observable state at capture time.
// Immutable once captured.
type CardSnapshot struct {
	ID     string
	Name   string
	Desc   string
	ListID string
	Labels []string
}

// labelKey encodes the label set order-insensitively for comparison.
func (c CardSnapshot) labelKey() string {
	if len(c.Labels) == 0 {
		return ""
	}
	sorted := make([]string, len(c.Labels))
	copy(sorted, c.Labels)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// BoardSnapshot is a captured view of a board's lists and targeted cards.
// CardOrder preserves insertion order (list order, then per-list fetch
// order) so diffs are reproducible; Go maps alone would not give that.
type BoardSnapshot struct {
	BoardID        string
	Cards          map[string]CardSnapshot
	CardOrder      []string
	ListNames      map[string]string
	LastActivityID string // "" until an activity entry has been seen
	CapturedAt     time.Time
}

// Snapshot materializes the current state of a board. When listIDs is
// non-empty, card collection is restricted to those lists; list names
// are always recorded for the whole board. Upstream failures propagate
// verbatim — the caller decides whether to abort or keep polling.
func Snapshot(ctx context.Context, f BoardFetcher, boardID string, listIDs []string) (*BoardSnapshot, error) {
	lists, err := f.Lists(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("snapshot board %s: %w", boardID, err)
	}

	var targeted map[string]bool
	if len(listIDs) > 0 {
		targeted = make(map[string]bool, len(listIDs))
		for _, id := range listIDs {
			targeted[id] = true
		}
	}

	snap := &BoardSnapshot{
		BoardID:    boardID,
		Cards:      make(map[string]CardSnapshot),
		ListNames:  make(map[string]string, len(lists)),
		CapturedAt: time.Now(),
	}

	for _, list := range lists {
		snap.ListNames[list.ID] = list.Name
		if targeted != nil && !targeted[list.ID] {
			continue
		}

		cards, err := f.CardsInList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("snapshot list %s: %w", list.ID, err)
		}
		for _, card := range cards {
			if _, seen := snap.Cards[card.ID]; !seen {
				snap.CardOrder = append(snap.CardOrder, card.ID)
			}
			snap.Cards[card.ID] = CardSnapshot{
				ID:     card.ID,
				Name:   card.Name,
				Desc:   card.Desc,
				ListID: list.ID,
				Labels: card.IDLabels,
			}
		}
	}

	return snap, nil
}
