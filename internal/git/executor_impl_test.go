package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRunner records invocations and replays canned responses keyed by
// the joined argument string.
type stubRunner struct {
	calls     [][]string
	responses map[string]string
	errs      map[string]error
}

func (s *stubRunner) run(dir string, args ...string) (string, error) {
	s.calls = append(s.calls, args)
	key := strings.Join(args, " ")
	if err, ok := s.errs[key]; ok {
		return "", err
	}
	return s.responses[key], nil
}

func newStubExecutor(t *testing.T) (*RealExecutor, *stubRunner) {
	t.Helper()
	stub := &stubRunner{
		responses: map[string]string{},
		errs:      map[string]error{},
	}
	e := NewRealExecutor("/repo")
	e.run = stub.run
	return e, stub
}

func TestIsGitRepo(t *testing.T) {
	e, stub := newStubExecutor(t)
	require.True(t, e.IsGitRepo())

	stub.errs["rev-parse --git-dir"] = ErrNotGitRepo
	require.False(t, e.IsGitRepo())
}

func TestGetCurrentBranch(t *testing.T) {
	e, stub := newStubExecutor(t)
	stub.responses["branch --show-current"] = "feature/auth"

	branch, err := e.GetCurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "feature/auth", branch)
}

func TestGetCurrentBranch_DetachedHead(t *testing.T) {
	e, stub := newStubExecutor(t)
	stub.responses["branch --show-current"] = ""
	stub.responses["rev-parse --short HEAD"] = "abc1234"

	branch, err := e.GetCurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "abc1234", branch)
}

func TestGetWorkingDirDiff(t *testing.T) {
	e, stub := newStubExecutor(t)
	stub.responses["diff HEAD"] = "diff --git a/x b/x"

	out, err := e.GetWorkingDirDiff()
	require.NoError(t, err)
	require.Equal(t, "diff --git a/x b/x", out)
}

func TestGetWorkingDirDiff_NoCommitsFallsBackToStaged(t *testing.T) {
	e, stub := newStubExecutor(t)
	stub.errs["diff HEAD"] = ErrUnknownRef
	stub.responses["diff --cached"] = "diff --git a/new b/new"

	out, err := e.GetWorkingDirDiff()
	require.NoError(t, err)
	require.Equal(t, "diff --git a/new b/new", out)
}

func TestGetFileDiff_UsesPathSeparator(t *testing.T) {
	e, stub := newStubExecutor(t)
	_, err := e.GetFileDiff("main", "cmd/root.go")
	require.NoError(t, err)
	require.Equal(t, []string{"diff", "main", "--", "cmd/root.go"}, stub.calls[0])
}

func TestGetCommitDiff(t *testing.T) {
	e, stub := newStubExecutor(t)
	_, err := e.GetCommitDiff("abc1234")
	require.NoError(t, err)
	require.Equal(t, []string{"diff", "abc1234^!", "--"}, stub.calls[0])
}

func TestGetUntrackedFiles(t *testing.T) {
	e, stub := newStubExecutor(t)
	stub.responses["ls-files --others --exclude-standard"] = "new.go\ndocs/new.md"

	files, err := e.GetUntrackedFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"new.go", "docs/new.md"}, files)
}

func TestGetUntrackedFiles_Empty(t *testing.T) {
	e, _ := newStubExecutor(t)
	files, err := e.GetUntrackedFiles()
	require.NoError(t, err)
	require.Nil(t, files)
}

func TestGetFileContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644))

	e := NewRealExecutor(dir)
	content, err := e.GetFileContent("a.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", content)

	_, err = e.GetFileContent("missing.txt")
	require.Error(t, err)
}

func TestParseGitError(t *testing.T) {
	base := errors.New("exit status 128")

	err := parseGitError("fatal: not a git repository (or any of the parent directories)", base)
	require.ErrorIs(t, err, ErrNotGitRepo)

	err = parseGitError("fatal: bad revision 'nope'", base)
	require.ErrorIs(t, err, ErrUnknownRef)

	err = parseGitError("fatal: something else", base)
	require.ErrorIs(t, err, base)
}
