// Package review tracks per-file viewed state for a diff review
// session. A file counts as viewed only while its content hash still
// matches the diff text it was reviewed against; content drift silently
// demotes it back to unviewed.
package review

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/log"
)

// UndoCapacity bounds the undo stack; the oldest entry is evicted when
// a new mark would exceed it.
const UndoCapacity = 50

// ViewedState records one file's review status and the fingerprint of
// the diff text it was reviewed against.
type ViewedState struct {
	Viewed      bool
	ContentHash string
}

// HashContent fingerprints diff text for staleness detection. xxhash is
// not cryptographic, which is fine: collisions only risk leaving a
// stale check-mark, never data loss.
func HashContent(diffText string) string {
	return strconv.FormatUint(xxhash.Sum64String(diffText), 16)
}

// undoEntry remembers the state a key held before a mutation. A nil
// prev means the key had no stored state at all.
type undoEntry struct {
	key  string
	prev *ViewedState
}

// Tracker maintains viewed state for a single session. All mutations
// serialize through its mutex so multiple panels over the same session
// stay coherent.
type Tracker struct {
	mu     sync.Mutex
	states map[string]ViewedState
	undo   []undoEntry
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]ViewedState)}
}

// IsViewed reports whether key is currently viewed: a stored state must
// exist, be marked viewed, and carry the hash of currentDiffText.
func (t *Tracker) IsViewed(key, currentDiffText string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isViewedLocked(key, currentDiffText)
}

func (t *Tracker) isViewedLocked(key, currentDiffText string) bool {
	s, ok := t.states[key]
	return ok && s.Viewed && s.ContentHash == HashContent(currentDiffText)
}

// MarkViewed stores viewed state for key against the given diff text
// and pushes the previous state onto the undo stack.
func (t *Tracker) MarkViewed(key, diffText string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushUndoLocked(key)
	t.states[key] = ViewedState{Viewed: true, ContentHash: HashContent(diffText)}
}

// MarkUnviewed clears viewed state for key. It does not record undo:
// unmarking is the recovery action, not the mistake.
func (t *Tracker) MarkUnviewed(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[key] = ViewedState{}
}

// ToggleViewed flips the effective viewed status for key, recording
// undo state first. It reports the new effective status.
func (t *Tracker) ToggleViewed(key, diffText string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushUndoLocked(key)
	if t.isViewedLocked(key, diffText) {
		t.states[key] = ViewedState{}
		return false
	}
	t.states[key] = ViewedState{Viewed: true, ContentHash: HashContent(diffText)}
	return true
}

// Undo restores the state recorded by the most recent mark or toggle.
// It returns the affected key and false when the stack is empty.
func (t *Tracker) Undo() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.undo) == 0 {
		return "", false
	}
	e := t.undo[len(t.undo)-1]
	t.undo = t.undo[:len(t.undo)-1]
	if e.prev == nil {
		delete(t.states, e.key)
	} else {
		t.states[e.key] = *e.prev
	}
	return e.key, true
}

// InvalidateStale resets every stored state whose hash no longer
// matches the corresponding record's diff text. Records absent from the
// slice keep their state; their staleness is decided on the next
// refresh that includes them. It returns the keys that were reset.
//
// Callers must run this on every diff refresh before trusting IsViewed.
func (t *Tracker) InvalidateStale(records []diff.FileDiffRecord) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var reset []string
	for _, rec := range records {
		s, ok := t.states[rec.Key]
		if !ok || !s.Viewed {
			continue
		}
		if s.ContentHash != HashContent(rec.DiffText) {
			t.states[rec.Key] = ViewedState{}
			reset = append(reset, rec.Key)
		}
	}
	if len(reset) > 0 {
		log.Debug(log.CatReview, "invalidated stale viewed state", "count", len(reset))
	}
	return reset
}

// Snapshot copies the stored states, for persistence.
func (t *Tracker) Snapshot() map[string]ViewedState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]ViewedState, len(t.states))
	for k, v := range t.states {
		out[k] = v
	}
	return out
}

// Restore replaces the stored states, for loading persisted sessions.
// The undo stack is cleared; undo never crosses a restore boundary.
func (t *Tracker) Restore(states map[string]ViewedState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]ViewedState, len(states))
	for k, v := range states {
		t.states[k] = v
	}
	t.undo = nil
}

// Clear drops all state and undo history.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]ViewedState)
	t.undo = nil
}

func (t *Tracker) pushUndoLocked(key string) {
	var prev *ViewedState
	if s, ok := t.states[key]; ok {
		cp := s
		prev = &cp
	}
	t.undo = append(t.undo, undoEntry{key: key, prev: prev})
	if len(t.undo) > UndoCapacity {
		t.undo = t.undo[len(t.undo)-UndoCapacity:]
	}
}

// NextUnviewed returns the key of the first unviewed record after the
// record with key current, in the given order, wrapping to the start.
// It returns "" when every record is viewed. Records are expected to be
// pre-sorted with diff.SortRecords.
func (t *Tracker) NextUnviewed(records []diff.FileDiffRecord, current string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := 0
	for i, rec := range records {
		if rec.Key == current {
			start = i + 1
			break
		}
	}
	for i := range records {
		rec := records[(start+i)%len(records)]
		if !t.isViewedLocked(rec.Key, rec.DiffText) {
			return rec.Key
		}
	}
	return ""
}
