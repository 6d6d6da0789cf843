package review

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/diffscope/internal/diff"
)

func TestTracker_MarkAndQuery(t *testing.T) {
	tr := NewTracker()
	require.False(t, tr.IsViewed("a.go", "diff text"))

	tr.MarkViewed("a.go", "diff text")
	require.True(t, tr.IsViewed("a.go", "diff text"))

	tr.MarkUnviewed("a.go")
	require.False(t, tr.IsViewed("a.go", "diff text"))
}

func TestTracker_StalenessInvariant(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "old content")

	// Content drift makes the stored state stale without any explicit
	// invalidation call.
	require.False(t, tr.IsViewed("a.go", "new content"))
	require.True(t, tr.IsViewed("a.go", "old content"))

	tr.MarkViewed("a.go", "new content")
	require.True(t, tr.IsViewed("a.go", "new content"))
}

func TestTracker_Toggle(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.ToggleViewed("a.go", "x"))
	require.True(t, tr.IsViewed("a.go", "x"))
	require.False(t, tr.ToggleViewed("a.go", "x"))
	require.False(t, tr.IsViewed("a.go", "x"))
}

func TestTracker_ToggleOnStaleStateMarksViewed(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "v1")

	// Effective status under drifted content is unviewed, so toggling
	// re-marks against the current content rather than unmarking.
	require.True(t, tr.ToggleViewed("a.go", "v2"))
	require.True(t, tr.IsViewed("a.go", "v2"))
}

func TestTracker_UndoRestoresAbsence(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "x")

	key, ok := tr.Undo()
	require.True(t, ok)
	require.Equal(t, "a.go", key)
	require.False(t, tr.IsViewed("a.go", "x"))
	require.Empty(t, tr.Snapshot())
}

func TestTracker_UndoRestoresPriorHash(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "v1")
	tr.MarkViewed("a.go", "v2")

	_, ok := tr.Undo()
	require.True(t, ok)
	require.True(t, tr.IsViewed("a.go", "v1"))
	require.False(t, tr.IsViewed("a.go", "v2"))
}

func TestTracker_UndoEmptyStack(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.Undo()
	require.False(t, ok)
}

func TestTracker_UndoStackBounded(t *testing.T) {
	tr := NewTracker()
	for i := range UndoCapacity + 10 {
		tr.MarkViewed(fmt.Sprintf("f%d", i), "x")
	}
	undone := 0
	for {
		if _, ok := tr.Undo(); !ok {
			break
		}
		undone++
	}
	require.Equal(t, UndoCapacity, undone)
}

func TestTracker_InvalidateStale(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "v1")
	tr.MarkViewed("b.go", "v1")

	reset := tr.InvalidateStale([]diff.FileDiffRecord{
		{Key: "a.go", DiffText: "v2"},
		{Key: "b.go", DiffText: "v1"},
		{Key: "c.go", DiffText: "v1"},
	})
	require.Equal(t, []string{"a.go"}, reset)
	require.False(t, tr.IsViewed("a.go", "v2"))
	require.True(t, tr.IsViewed("b.go", "v1"))
}

func TestTracker_InvalidateStaleKeepsAbsentRecords(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "v1")

	require.Empty(t, tr.InvalidateStale([]diff.FileDiffRecord{{Key: "b.go", DiffText: "x"}}))
	require.True(t, tr.IsViewed("a.go", "v1"))
}

func TestTracker_SnapshotRestore(t *testing.T) {
	tr := NewTracker()
	tr.MarkViewed("a.go", "v1")

	snap := tr.Snapshot()
	other := NewTracker()
	other.Restore(snap)
	require.True(t, other.IsViewed("a.go", "v1"))

	// Undo never crosses a restore boundary.
	_, ok := other.Undo()
	require.False(t, ok)
}

func TestTracker_NextUnviewed(t *testing.T) {
	records := []diff.FileDiffRecord{
		{Key: "2", DiffText: "a"},
		{Key: "10", DiffText: "b"},
		{Key: "x.go", DiffText: "c"},
	}
	tr := NewTracker()

	require.Equal(t, "10", tr.NextUnviewed(records, "2"))

	// Wraps past the end.
	tr.MarkViewed("10", "b")
	tr.MarkViewed("x.go", "c")
	require.Equal(t, "2", tr.NextUnviewed(records, "x.go"))

	// All viewed: nothing to advance to.
	tr.MarkViewed("2", "a")
	require.Equal(t, "", tr.NextUnviewed(records, "2"))
}

func TestStore_SharedPerSession(t *testing.T) {
	s := NewStore()
	a := s.Get("chat-1")
	require.Same(t, a, s.Get("chat-1"))
	require.NotSame(t, a, s.Get("chat-2"))

	a.MarkViewed("f", "x")
	require.True(t, s.Get("chat-1").IsViewed("f", "x"))

	s.Dispose("chat-1")
	require.False(t, s.Get("chat-1").IsViewed("f", "x"))
}

// TestTracker_UndoRapid drives random mark/toggle/unmark/undo sequences
// and checks that undo always restores the exact previous observable
// state for the touched key.
func TestTracker_UndoRapid(t *testing.T) {
	keys := []string{"a", "b", "c"}
	contents := []string{"v1", "v2"}

	rapid.Check(t, func(t *rapid.T) {
		tr := NewTracker()
		// Shadow model of the stored states.
		model := map[string]ViewedState{}
		type entry struct {
			key  string
			prev *ViewedState
		}
		var undoLog []entry

		push := func(key string) {
			var prev *ViewedState
			if s, ok := model[key]; ok {
				cp := s
				prev = &cp
			}
			undoLog = append(undoLog, entry{key, prev})
			if len(undoLog) > UndoCapacity {
				undoLog = undoLog[1:]
			}
		}

		steps := rapid.IntRange(1, 120).Draw(t, "steps")
		for range steps {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			content := rapid.SampledFrom(contents).Draw(t, "content")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				push(key)
				tr.MarkViewed(key, content)
				model[key] = ViewedState{Viewed: true, ContentHash: HashContent(content)}
			case 1:
				tr.MarkUnviewed(key)
				model[key] = ViewedState{}
			case 2:
				push(key)
				tr.ToggleViewed(key, content)
				s := model[key]
				if s.Viewed && s.ContentHash == HashContent(content) {
					model[key] = ViewedState{}
				} else {
					model[key] = ViewedState{Viewed: true, ContentHash: HashContent(content)}
				}
			case 3:
				_, ok := tr.Undo()
				require.Equal(t, len(undoLog) > 0, ok)
				if ok {
					e := undoLog[len(undoLog)-1]
					undoLog = undoLog[:len(undoLog)-1]
					if e.prev == nil {
						delete(model, e.key)
					} else {
						model[e.key] = *e.prev
					}
				}
			}
		}

		require.Equal(t, model, tr.Snapshot())
	})
}
