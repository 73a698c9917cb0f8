package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the pause between watch cycles.
	DefaultPollInterval = 5 * time.Second

	// DefaultTimeout is how long a watch waits before giving up.
	DefaultTimeout = 5 * time.Minute

	// activityPageSize is how many recent activity entries each cycle
	// scans for comments.
	activityPageSize = 50
)

// Result is what a watch returns: either a non-empty ordered change set,
// or a timeout with no changes. Never both, never neither.
type Result struct {
	Changes  []Change `json:"changes"`
	TimedOut bool     `json:"timedOut"`
}

// Store retains the latest snapshot per board for the process lifetime,
// so a later watch on the same board inherits the activity watermark and
// does not re-report comments an earlier watch already delivered.
// Entries for boards no longer watched persist harmlessly.
type Store struct {
	mu     sync.Mutex
	latest map[string]*BoardSnapshot
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{latest: make(map[string]*BoardSnapshot)}
}

// Latest returns the retained snapshot for a board, or nil.
func (s *Store) Latest(boardID string) *BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[boardID]
}

// Put replaces the retained snapshot for a board. Concurrent watches on
// the same board are not coordinated; last writer wins.
func (s *Store) Put(boardID string, snap *BoardSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[boardID] = snap
}

// Watcher runs sequential snapshot-and-compare cycles against one board
// at a time per Watch call. Cycles never overlap: a new capture starts
// only after the previous comparison finished.
type Watcher struct {
	fetcher BoardFetcher
	store   *Store
	log     *zap.Logger
}

// NewWatcher creates a Watcher. The store is injected so its lifetime
// and sharing are explicit rather than ambient package state.
func NewWatcher(fetcher BoardFetcher, store *Store, log *zap.Logger) *Watcher {
	return &Watcher{fetcher: fetcher, store: store, log: log}
}

// Watch blocks until the board shows at least one change or the timeout
// elapses. Non-positive interval or timeout select the defaults. Each
// cycle issues one lists fetch, one cards fetch per targeted list, and
// one activity fetch, all gated by the client's rate limiter. Any fetch
// failure aborts the watch immediately; cancelling ctx interrupts both
// the poll sleep and in-flight fetches.
func (w *Watcher) Watch(ctx context.Context, boardID string, listIDs []string, interval, timeout time.Duration) (*Result, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	prev, err := Snapshot(ctx, w.fetcher, boardID, listIDs)
	if err != nil {
		return nil, err
	}
	// Inherit the activity watermark from any earlier watch on this
	// board so its already-reported comments stay reported-once.
	if retained := w.store.Latest(boardID); retained != nil {
		prev.LastActivityID = retained.LastActivityID
	}
	w.store.Put(boardID, prev)

	// List names are resolved once and reused for every cycle.
	listNames := prev.ListNames

	start := time.Now()
	w.log.Debug("watch started",
		zap.String("board", boardID),
		zap.Int("cards", len(prev.CardOrder)),
		zap.Duration("interval", interval),
		zap.Duration("timeout", timeout),
	)

	for time.Since(start) < timeout {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		curr, err := Snapshot(ctx, w.fetcher, boardID, listIDs)
		if err != nil {
			return nil, err
		}
		actions, err := w.fetcher.RecentActivity(ctx, boardID, activityPageSize)
		if err != nil {
			return nil, err
		}

		changes := Detect(prev, curr, listNames, actions)
		w.store.Put(boardID, curr)
		prev = curr

		if len(changes) > 0 {
			w.log.Debug("watch detected changes",
				zap.String("board", boardID),
				zap.Int("count", len(changes)),
			)
			return &Result{Changes: changes}, nil
		}
	}

	return &Result{Changes: []Change{}, TimedOut: true}, nil
}
