package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diffscope/internal/diff"
)

// fakeExecutor implements git.Executor with canned data and counters.
type fakeExecutor struct {
	workingDiff      string
	workingDiffErr   error
	workingDiffCalls int
	refDiffs         map[string]string
	untracked        []string
	contents         map[string]string
	contentCalls     int
}

func (f *fakeExecutor) IsGitRepo() bool                    { return true }
func (f *fakeExecutor) GetRepoRoot() (string, error)       { return "/repo", nil }
func (f *fakeExecutor) GetCurrentBranch() (string, error)  { return "main", nil }
func (f *fakeExecutor) GetCommitDiff(string) (string, error) { return "", nil }
func (f *fakeExecutor) GetFileDiff(ref, path string) (string, error) {
	return f.refDiffs[ref], nil
}

func (f *fakeExecutor) GetWorkingDirDiff() (string, error) {
	f.workingDiffCalls++
	return f.workingDiff, f.workingDiffErr
}

func (f *fakeExecutor) GetDiff(ref string) (string, error) {
	d, ok := f.refDiffs[ref]
	if !ok {
		return "", errors.New("unknown ref")
	}
	return d, nil
}

func (f *fakeExecutor) GetUntrackedFiles() ([]string, error) { return f.untracked, nil }

func (f *fakeExecutor) GetFileContent(path string) (string, error) {
	f.contentCalls++
	content, ok := f.contents[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func TestGitSource_FetchDiffWorkingDir(t *testing.T) {
	exec := &fakeExecutor{workingDiff: "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"}
	s := NewGitSource(exec, "")

	out, err := s.FetchDiff(context.Background())
	require.NoError(t, err)
	require.Equal(t, exec.workingDiff, out)
}

func TestGitSource_FetchDiffCaches(t *testing.T) {
	exec := &fakeExecutor{workingDiff: "x"}
	s := NewGitSource(exec, "")

	_, err := s.FetchDiff(context.Background())
	require.NoError(t, err)
	_, err = s.FetchDiff(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, exec.workingDiffCalls)

	s.Invalidate(context.Background())
	_, err = s.FetchDiff(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, exec.workingDiffCalls)
}

func TestGitSource_FetchDiffRef(t *testing.T) {
	exec := &fakeExecutor{refDiffs: map[string]string{"main": "ref diff"}}
	s := NewGitSource(exec, "main")

	out, err := s.FetchDiff(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ref diff", out)
}

func TestGitSource_UntrackedFilesSynthesized(t *testing.T) {
	exec := &fakeExecutor{
		workingDiff: "",
		untracked:   []string{"new.go"},
		contents:    map[string]string{"new.go": "package main\n\nfunc main() {}\n"},
	}
	s := NewGitSource(exec, "")

	out, err := s.FetchDiff(context.Background())
	require.NoError(t, err)

	// The synthesized block must round-trip through the splitter as a
	// valid new file.
	records := diff.Split(out)
	require.Len(t, records, 1)
	require.True(t, records[0].IsNew())
	require.True(t, records[0].IsValid)
	require.Equal(t, "new.go", records[0].NewPath)
	require.Equal(t, 3, records[0].Additions)
}

func TestGitSource_UnreadableUntrackedSkipped(t *testing.T) {
	exec := &fakeExecutor{
		workingDiff: "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n",
		untracked:   []string{"gone.go"},
	}
	s := NewGitSource(exec, "")

	out, err := s.FetchDiff(context.Background())
	require.NoError(t, err)
	require.Len(t, diff.Split(out), 1)
}

func TestGitSource_FetchContentsBatchAndPartial(t *testing.T) {
	exec := &fakeExecutor{contents: map[string]string{"a.go": "A", "b.go": "B"}}
	s := NewGitSource(exec, "")

	out, err := s.FetchContents(context.Background(), []string{"a.go", "missing.go", "b.go"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a.go": "A", "b.go": "B"}, out)
}

func TestGitSource_FetchContentsBounded(t *testing.T) {
	contents := map[string]string{}
	var paths []string
	for i := 0; i < ContentBatchSize+5; i++ {
		p := string(rune('a'+i%26)) + ".go"
		contents[p] = "x"
	}
	for p := range contents {
		paths = append(paths, p)
	}
	// Pad with duplicates so the request exceeds the batch size.
	for len(paths) <= ContentBatchSize {
		paths = append(paths, paths[0])
	}

	exec := &fakeExecutor{contents: contents}
	s := NewGitSource(exec, "")

	out, err := s.FetchContents(context.Background(), paths)
	require.NoError(t, err)
	require.LessOrEqual(t, len(out), ContentBatchSize)
}

func TestGitSource_FetchContentsCached(t *testing.T) {
	exec := &fakeExecutor{contents: map[string]string{"a.go": "A"}}
	s := NewGitSource(exec, "")

	_, err := s.FetchContents(context.Background(), []string{"a.go"})
	require.NoError(t, err)
	_, err = s.FetchContents(context.Background(), []string{"a.go"})
	require.NoError(t, err)
	require.Equal(t, 1, exec.contentCalls)
}

func TestMergeContents_NonDestructive(t *testing.T) {
	existing := map[string]string{"a.go": "old A", "b.go": "B"}
	fetched := map[string]string{"a.go": "new A", "c.go": "C"}

	merged := MergeContents(existing, fetched)
	require.Equal(t, map[string]string{"a.go": "new A", "b.go": "B", "c.go": "C"}, merged)

	// Inputs untouched.
	require.Equal(t, "old A", existing["a.go"])
}

func TestMergeContents_NilInputs(t *testing.T) {
	require.Empty(t, MergeContents(nil, nil))
	require.Equal(t, map[string]string{"a": "1"}, MergeContents(nil, map[string]string{"a": "1"}))
}
