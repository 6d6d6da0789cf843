package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zjrosen/diffscope/internal/log"
)

// Git-specific errors surfaced to callers.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrUnknownRef indicates the requested ref does not resolve.
	ErrUnknownRef = errors.New("unknown git ref")
)

// runnerFunc executes git with args in dir and returns trimmed stdout.
// Swappable in tests so no git binary or repository is needed.
type runnerFunc func(dir string, args ...string) (string, error)

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
	run     runnerFunc
}

// NewRealExecutor creates a new RealExecutor rooted at workDir.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir, run: runGitCommand}
}

// runGitCommand executes a git command and returns stdout and any error.
func runGitCommand(dir string, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}
	if strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "bad revision") {
		return fmt.Errorf("%w: %s", ErrUnknownRef, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo() bool {
	_, err := e.run(e.workDir, "rev-parse", "--git-dir")
	return err == nil
}

// GetRepoRoot returns the absolute path of the repository root.
func (e *RealExecutor) GetRepoRoot() (string, error) {
	return e.run(e.workDir, "rev-parse", "--show-toplevel")
}

// GetCurrentBranch returns the current branch name, falling back to the
// short hash when HEAD is detached.
func (e *RealExecutor) GetCurrentBranch() (string, error) {
	branch, err := e.run(e.workDir, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if branch != "" {
		return branch, nil
	}
	// Detached HEAD: --show-current prints nothing.
	return e.run(e.workDir, "rev-parse", "--short", "HEAD")
}

// GetWorkingDirDiff returns uncommitted changes (staged + unstaged)
// against HEAD.
func (e *RealExecutor) GetWorkingDirDiff() (string, error) {
	out, err := e.run(e.workDir, "diff", "HEAD")
	if err == nil {
		return out, nil
	}
	// A repository with no commits has no HEAD; staged changes are
	// still visible against the empty tree.
	if errors.Is(err, ErrUnknownRef) {
		log.Debug(log.CatGit, "no HEAD, diffing against empty tree")
		return e.run(e.workDir, "diff", "--cached")
	}
	return "", err
}

// GetDiff returns the unified diff against ref.
func (e *RealExecutor) GetDiff(ref string) (string, error) {
	return e.run(e.workDir, "diff", ref)
}

// GetFileDiff returns the diff for a single file against ref.
func (e *RealExecutor) GetFileDiff(ref, path string) (string, error) {
	return e.run(e.workDir, "diff", ref, "--", path)
}

// GetCommitDiff returns what changed in a specific commit.
func (e *RealExecutor) GetCommitDiff(hash string) (string, error) {
	return e.run(e.workDir, "diff", hash+"^!", "--")
}

// GetUntrackedFiles returns paths of files not yet known to git.
func (e *RealExecutor) GetUntrackedFiles() ([]string, error) {
	out, err := e.run(e.workDir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// GetFileContent reads a working-directory file. The path is resolved
// relative to the executor's working directory.
func (e *RealExecutor) GetFileContent(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.workDir, path)
	}
	//nolint:gosec // G304: path comes from git's own file listing
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	return string(data), nil
}
