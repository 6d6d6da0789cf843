package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func parseForWordDiff(t *testing.T, block string) *File {
	t.Helper()
	f, err := ParseFile(block)
	require.NoError(t, err)
	return f
}

func TestComputeWordDiff_AdjacentPair(t *testing.T) {
	f := parseForWordDiff(t, "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-hello world\n+hello there\n")
	w := ComputeWordDiff(f)

	// Lines[0] is the hunk header, so the pair sits at indices 1 and 2.
	oldSegs := w.SegmentsFor(0, 1, LineDeletion)
	require.NotEmpty(t, oldSegs)
	require.Equal(t, Segment{Kind: SegmentUnchanged, Text: "hello "}, oldSegs[0])
	require.Contains(t, oldSegs, Segment{Kind: SegmentDeleted, Text: "world"})

	newSegs := w.SegmentsFor(0, 2, LineAddition)
	require.Contains(t, newSegs, Segment{Kind: SegmentAdded, Text: "there"})
}

func TestComputeWordDiff_UnpairedLinesSkipped(t *testing.T) {
	f := parseForWordDiff(t, "--- a/x\n+++ b/x\n@@ -1,2 +1,1 @@\n-gone\n context\n+arrived\n")
	w := ComputeWordDiff(f)

	require.Nil(t, w.SegmentsFor(0, 1, LineDeletion))
	require.Nil(t, w.SegmentsFor(0, 3, LineAddition))
}

func TestComputeWordDiff_LongLinesSkipped(t *testing.T) {
	long := make([]byte, wordDiffMaxLineLength+1)
	for i := range long {
		long[i] = 'a'
	}
	f := parseForWordDiff(t, "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-"+string(long)+"\n+short\n")
	w := ComputeWordDiff(f)

	require.Nil(t, w.SegmentsFor(0, 1, LineDeletion))
	require.Nil(t, w.SegmentsFor(0, 2, LineAddition))
}

func TestComputeWordDiff_NilSafe(t *testing.T) {
	var w *WordDiff
	require.Nil(t, w.SegmentsFor(0, 0, LineDeletion))
	require.NotNil(t, ComputeWordDiff(nil))
}

func TestTokenize(t *testing.T) {
	require.Nil(t, tokenize(""))
	require.Equal(t, []string{"foo", ".", "Bar", "(", "x", ")"}, tokenize("foo.Bar(x)"))
	require.Equal(t, []string{"a", " ", "b"}, tokenize("a b"))
}
