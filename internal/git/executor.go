// Package git shells out to the git binary to supply diff text and
// file contents for review.
package git

// Executor defines the git operations the diff viewer needs.
// This abstraction allows for easy testing with mock implementations.
type Executor interface {
	// IsGitRepo reports whether the working directory is inside a git
	// repository.
	IsGitRepo() bool
	// GetRepoRoot returns the absolute path of the repository root.
	GetRepoRoot() (string, error)
	// GetCurrentBranch returns the checked-out branch name, or the
	// short commit hash when HEAD is detached.
	GetCurrentBranch() (string, error)

	// GetWorkingDirDiff returns the diff of uncommitted changes
	// (staged + unstaged vs HEAD).
	GetWorkingDirDiff() (string, error)
	// GetDiff returns the unified diff output against the given ref
	// (e.g. "HEAD~1", "main").
	GetDiff(ref string) (string, error)
	// GetFileDiff returns the diff for a single file against the given ref.
	GetFileDiff(ref, path string) (string, error)
	// GetCommitDiff returns the diff for a specific commit (what changed
	// in that commit).
	GetCommitDiff(hash string) (string, error)

	// GetUntrackedFiles returns the list of untracked files (new files
	// not yet staged).
	GetUntrackedFiles() ([]string, error)
	// GetFileContent returns the content of a file in the working
	// directory. Used for untracked files that have no diff, and for
	// "show full file" expansion.
	GetFileContent(path string) (string, error)
}
