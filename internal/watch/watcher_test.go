package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HendryAvila/boardwatch/internal/trello"
	"go.uber.org/zap"
)

func newTestWatcher(f *fakeBoard) (*Watcher, *Store) {
	store := NewStore()
	return NewWatcher(f, store, zap.NewNop()), store
}

func TestWatch_TimesOutWhenNothingChanges(t *testing.T) {
	f := newFakeBoard()
	w, _ := newTestWatcher(f)

	res, err := w.Watch(context.Background(), "b1", nil, 10*time.Millisecond, 25*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if res.Changes == nil || len(res.Changes) != 0 {
		t.Errorf("Changes = %v, want empty non-nil slice", res.Changes)
	}

	f.mu.Lock()
	cycles := f.activityCalls
	f.mu.Unlock()
	if cycles < 1 || cycles > 4 {
		t.Errorf("poll cycles = %d, want roughly 2", cycles)
	}
}

func TestWatch_ReturnsOnMove(t *testing.T) {
	f := newFakeBoard()
	w, store := newTestWatcher(f)

	go func() {
		time.Sleep(15 * time.Millisecond)
		f.moveCard("c1", "L1", "L2")
	}()

	res, err := w.Watch(context.Background(), "b1", nil, 5*time.Millisecond, 2*time.Second)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if res.TimedOut {
		t.Fatal("TimedOut = true, want changes")
	}
	if len(res.Changes) != 1 {
		t.Fatalf("Changes = %+v, want exactly one", res.Changes)
	}
	got := res.Changes[0]
	if got.Type != TypeMoved || got.CardID != "c1" || got.PrevListID != "L1" || got.ListID != "L2" {
		t.Errorf("change = %+v, want c1 moved L1 → L2", got)
	}

	// The store retains the snapshot that contained the change.
	retained := store.Latest("b1")
	if retained == nil || retained.Cards["c1"].ListID != "L2" {
		t.Errorf("retained snapshot = %+v, want c1 in L2", retained)
	}
}

func TestWatch_SecondWatchDoesNotRereportComments(t *testing.T) {
	f := newFakeBoard()
	f.actions = []trello.Action{
		{ID: "a001", Type: trello.ActionCommentCard, Data: trello.ActionData{Text: "hello", Card: trello.ActionCard{ID: "c1"}}},
	}
	w, _ := newTestWatcher(f)

	res, err := w.Watch(context.Background(), "b1", nil, 5*time.Millisecond, time.Second)
	if err != nil {
		t.Fatalf("first Watch: %v", err)
	}
	if res.TimedOut || len(res.Changes) != 1 || res.Changes[0].Type != TypeCommented {
		t.Fatalf("first Watch = %+v, want the comment", res)
	}

	// Same feed, same watcher: the retained watermark suppresses it.
	res, err = w.Watch(context.Background(), "b1", nil, 5*time.Millisecond, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("second Watch: %v", err)
	}
	if !res.TimedOut || len(res.Changes) != 0 {
		t.Errorf("second Watch = %+v, want timeout without changes", res)
	}
}

func TestWatch_InitialSnapshotErrorAborts(t *testing.T) {
	f := newFakeBoard()
	f.listsErr = errors.New("boom")
	w, _ := newTestWatcher(f)

	if _, err := w.Watch(context.Background(), "b1", nil, 5*time.Millisecond, time.Second); err == nil {
		t.Fatal("want initial snapshot error to surface")
	}
}

func TestWatch_CycleErrorAborts(t *testing.T) {
	f := newFakeBoard()
	f.actionsErr = errors.New("boom")
	w, _ := newTestWatcher(f)

	_, err := w.Watch(context.Background(), "b1", nil, 5*time.Millisecond, time.Second)
	if err == nil {
		t.Fatal("want activity fetch error to surface")
	}
}

func TestWatch_CancelInterruptsSleep(t *testing.T) {
	f := newFakeBoard()
	w, _ := newTestWatcher(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := w.Watch(ctx, "b1", nil, time.Minute, time.Hour)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancellation")
	}
}

func TestStore_LastWriterWins(t *testing.T) {
	store := NewStore()
	a := &BoardSnapshot{BoardID: "b1", LastActivityID: "a1"}
	b := &BoardSnapshot{BoardID: "b1", LastActivityID: "a2"}

	store.Put("b1", a)
	store.Put("b1", b)
	if got := store.Latest("b1"); got != b {
		t.Errorf("Latest = %+v, want the later snapshot", got)
	}
	if store.Latest("b2") != nil {
		t.Error("Latest for unknown board should be nil")
	}
}
