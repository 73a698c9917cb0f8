package watch

import (
	"reflect"
	"testing"

	"github.com/HendryAvila/boardwatch/internal/trello"
)

// snapOf builds a snapshot from cards in order.
func snapOf(cards ...CardSnapshot) *BoardSnapshot {
	s := &BoardSnapshot{
		BoardID: "b1",
		Cards:   make(map[string]CardSnapshot, len(cards)),
	}
	for _, c := range cards {
		s.Cards[c.ID] = c
		s.CardOrder = append(s.CardOrder, c.ID)
	}
	return s
}

var testListNames = map[string]string{
	"L1": "Todo",
	"L2": "Doing",
}

func TestDetect_MoveOnly(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", Name: "Task", ListID: "L1", Labels: []string{"red"}})
	cur := snapOf(CardSnapshot{ID: "c1", Name: "Task", ListID: "L2", Labels: []string{"red"}})

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 1 {
		t.Fatalf("len(changes) = %d, want exactly 1", len(changes))
	}
	got := changes[0]
	if got.Type != TypeMoved {
		t.Errorf("Type = %q, want moved", got.Type)
	}
	if got.PrevListID != "L1" || got.ListID != "L2" {
		t.Errorf("lists = (%q → %q), want (L1 → L2)", got.PrevListID, got.ListID)
	}
	if got.ListName != "Doing" {
		t.Errorf("ListName = %q, want Doing", got.ListName)
	}
	if !reflect.DeepEqual(got.Labels, []string{"red"}) {
		t.Errorf("Labels = %v, want [red]", got.Labels)
	}
}

func TestDetect_Added(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", Name: "Task", ListID: "L1"})
	cur := snapOf(
		CardSnapshot{ID: "c1", Name: "Task", ListID: "L1"},
		CardSnapshot{ID: "c2", Name: "New", ListID: "L2", Desc: "fresh"},
	)

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 1 {
		t.Fatalf("len(changes) = %d, want 1", len(changes))
	}
	if changes[0].Type != TypeAdded || changes[0].CardID != "c2" {
		t.Errorf("got %+v, want added record for c2", changes[0])
	}
}

func TestDetect_AddedExcludesOtherVariants(t *testing.T) {
	// A brand-new card must not also report moved/label/description
	// changes even though it has no previous state to compare against.
	old := snapOf()
	cur := snapOf(CardSnapshot{ID: "c9", Name: "New", ListID: "L1", Labels: []string{"x"}, Desc: "d"})

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 1 || changes[0].Type != TypeAdded {
		t.Fatalf("changes = %+v, want single added record", changes)
	}
}

func TestDetect_LabelOrderInvariance(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"red", "blue"}})
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"blue", "red"}})

	if changes := Detect(old, cur, testListNames, nil); len(changes) != 0 {
		t.Errorf("changes = %+v, want none for reordered identical labels", changes)
	}
}

func TestDetect_LabelChangeCarriesPrevious(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"red"}})
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"red", "green"}})

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 1 || changes[0].Type != TypeLabelsChanged {
		t.Fatalf("changes = %+v, want single label_changed", changes)
	}
	if !reflect.DeepEqual(changes[0].PrevLabels, []string{"red"}) {
		t.Errorf("PrevLabels = %v, want [red]", changes[0].PrevLabels)
	}
}

func TestDetect_DescriptionChange(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Desc: "before"})
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Desc: "after"})

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 1 || changes[0].Type != TypeDescriptionChanged {
		t.Fatalf("changes = %+v, want single description_changed", changes)
	}
	if changes[0].Description != "after" {
		t.Errorf("Description = %q, want current text", changes[0].Description)
	}
}

func TestDetect_ChangesStackForOneCard(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"red"}, Desc: "a"})
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L2", Labels: []string{"blue"}, Desc: "b"})

	changes := Detect(old, cur, testListNames, nil)
	if len(changes) != 3 {
		t.Fatalf("len(changes) = %d, want 3 (moved, label_changed, description_changed)", len(changes))
	}
	wantOrder := []ChangeType{TypeMoved, TypeLabelsChanged, TypeDescriptionChanged}
	for i, want := range wantOrder {
		if changes[i].Type != want {
			t.Errorf("changes[%d].Type = %q, want %q", i, changes[i].Type, want)
		}
	}
}

func TestDetect_RemovedCardsNotReported(t *testing.T) {
	old := snapOf(
		CardSnapshot{ID: "c1", ListID: "L1"},
		CardSnapshot{ID: "c2", ListID: "L1"},
	)
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})

	if changes := Detect(old, cur, testListNames, nil); len(changes) != 0 {
		t.Errorf("changes = %+v, want none for a removed card", changes)
	}
}

func TestDetect_Comment(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", Name: "Task", ListID: "L1"})
	old.LastActivityID = "a001"
	cur := snapOf(CardSnapshot{ID: "c1", Name: "Task", ListID: "L1"})

	actions := []trello.Action{
		{
			ID:   "a003",
			Type: trello.ActionCommentCard,
			Data: trello.ActionData{Text: "🤖 by Claude Code: done", Card: trello.ActionCard{ID: "c1"}},
		},
		{
			ID:   "a002",
			Type: trello.ActionCommentCard,
			Data: trello.ActionData{Text: "looks good", Card: trello.ActionCard{ID: "c1"}},
		},
		{
			ID:   "a001",
			Type: trello.ActionCommentCard,
			Data: trello.ActionData{Text: "already seen", Card: trello.ActionCard{ID: "c1"}},
		},
	}

	changes := Detect(old, cur, testListNames, actions)
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2 (a001 is at the watermark)", len(changes))
	}
	if changes[0].Comment != "🤖 by Claude Code: done" || !changes[0].IsClaudeComment {
		t.Errorf("changes[0] = %+v, want flagged automation comment first", changes[0])
	}
	if changes[1].Comment != "looks good" || changes[1].IsClaudeComment {
		t.Errorf("changes[1] = %+v, want unflagged human comment", changes[1])
	}
	if cur.LastActivityID != "a003" {
		t.Errorf("LastActivityID = %q, want newest scanned id a003", cur.LastActivityID)
	}
}

func TestDetect_ActivityDeduplication(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})
	old.LastActivityID = "a005"
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})

	// Feed holds only entries at or before the watermark.
	actions := []trello.Action{
		{ID: "a005", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "old", Card: trello.ActionCard{ID: "c1"}}},
		{ID: "a004", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "older", Card: trello.ActionCard{ID: "c1"}}},
	}

	if changes := Detect(old, cur, testListNames, actions); len(changes) != 0 {
		t.Errorf("changes = %+v, want none when nothing is newer than the watermark", changes)
	}
	if cur.LastActivityID != "a005" {
		t.Errorf("LastActivityID = %q, want watermark carried forward", cur.LastActivityID)
	}
}

func TestDetect_CommentOnUnknownCardSkipped(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})
	old.LastActivityID = "a001"
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})

	actions := []trello.Action{
		{ID: "a002", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "hi", Card: trello.ActionCard{ID: "ghost"}}},
	}

	if changes := Detect(old, cur, testListNames, actions); len(changes) != 0 {
		t.Errorf("changes = %+v, want none for comments on untracked cards", changes)
	}
	if cur.LastActivityID != "a002" {
		t.Errorf("LastActivityID = %q, want a002 (entry was still scanned)", cur.LastActivityID)
	}
}

func TestDetect_NonCommentActionsIgnored(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})
	old.LastActivityID = "a001"
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})

	actions := []trello.Action{
		{ID: "a002", Type: "updateCard", Data: trello.ActionData{Card: trello.ActionCard{ID: "c1"}}},
	}

	if changes := Detect(old, cur, testListNames, actions); len(changes) != 0 {
		t.Errorf("changes = %+v, want none for non-comment activity", changes)
	}
}

func TestDetect_CommentsPrecedeCardChanges(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})
	old.LastActivityID = "a001"
	cur := snapOf(
		CardSnapshot{ID: "c1", ListID: "L2"},
		CardSnapshot{ID: "c2", ListID: "L2"},
	)

	actions := []trello.Action{
		{ID: "a002", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "note", Card: trello.ActionCard{ID: "c1"}}},
	}

	changes := Detect(old, cur, testListNames, actions)
	want := []ChangeType{TypeCommented, TypeMoved, TypeAdded}
	if len(changes) != len(want) {
		t.Fatalf("len(changes) = %d, want %d", len(changes), len(want))
	}
	for i, w := range want {
		if changes[i].Type != w {
			t.Errorf("changes[%d].Type = %q, want %q", i, changes[i].Type, w)
		}
	}
}

func TestDetect_Idempotent(t *testing.T) {
	mk := func() (*BoardSnapshot, *BoardSnapshot) {
		old := snapOf(CardSnapshot{ID: "c1", ListID: "L1", Labels: []string{"red"}})
		old.LastActivityID = "a001"
		cur := snapOf(
			CardSnapshot{ID: "c1", ListID: "L2", Labels: []string{"red"}},
			CardSnapshot{ID: "c2", ListID: "L1"},
		)
		return old, cur
	}
	actions := []trello.Action{
		{ID: "a002", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "x", Card: trello.ActionCard{ID: "c1"}}},
	}

	old1, cur1 := mk()
	old2, cur2 := mk()
	first := Detect(old1, cur1, testListNames, actions)
	second := Detect(old2, cur2, testListNames, actions)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("outputs differ:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestDetect_NoWatermarkScansWholePage(t *testing.T) {
	old := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})
	cur := snapOf(CardSnapshot{ID: "c1", ListID: "L1"})

	actions := []trello.Action{
		{ID: "a002", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "two", Card: trello.ActionCard{ID: "c1"}}},
		{ID: "a001", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "one", Card: trello.ActionCard{ID: "c1"}}},
	}

	changes := Detect(old, cur, testListNames, actions)
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2 (no watermark bounds the scan)", len(changes))
	}
	if cur.LastActivityID != "a002" {
		t.Errorf("LastActivityID = %q, want a002", cur.LastActivityID)
	}
}
