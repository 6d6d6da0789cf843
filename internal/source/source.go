// Package source supplies raw diff text and file contents for review
// sessions. Results are cached; the UI re-asks on every refresh without
// hammering git.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zjrosen/diffscope/internal/cachemanager"
	"github.com/zjrosen/diffscope/internal/git"
	"github.com/zjrosen/diffscope/internal/log"
)

const (
	diffCacheTTL    = 30 * time.Second
	contentCacheTTL = 5 * time.Minute

	// ContentBatchSize bounds how many files one FetchContents call
	// reads before returning a partial result.
	ContentBatchSize = 20
)

// DiffSource supplies a raw unified-diff blob for a session.
// An empty string means "no changes"; an error means the fetch failed
// and should be surfaced as retryable.
type DiffSource interface {
	FetchDiff(ctx context.Context) (string, error)
}

// ContentSource supplies working-tree file contents in bounded batches.
type ContentSource interface {
	// FetchContents returns path→content for up to ContentBatchSize of
	// the given paths. Partial results are fine; failed paths are
	// absent from the map. Merging into previously fetched sets is the
	// caller's job and must be non-destructive.
	FetchContents(ctx context.Context, paths []string) (map[string]string, error)
}

// GitSource implements DiffSource and ContentSource over a git
// executor. When ref is empty it serves the working-directory diff,
// with untracked files appended as synthesized new-file diffs.
type GitSource struct {
	exec git.Executor
	ref  string

	diffCache    *cachemanager.ReadThroughCache[string, struct{}]
	contentCache cachemanager.CacheManager[string]
}

// NewGitSource creates a GitSource for the given ref ("" = working
// directory).
func NewGitSource(exec git.Executor, ref string) *GitSource {
	s := &GitSource{
		exec:         exec,
		ref:          ref,
		contentCache: cachemanager.NewInMemoryCacheManager[string]("file-content", contentCacheTTL, cachemanager.DefaultCleanupInterval),
	}
	s.diffCache = cachemanager.NewReadThroughCache(
		cachemanager.NewInMemoryCacheManager[string]("diff", diffCacheTTL, cachemanager.DefaultCleanupInterval),
		func(ctx context.Context, _ struct{}) (string, error) {
			return s.fetchDiffUncached()
		},
		false,
	)
	return s
}

// FetchDiff returns the unified diff for the source's ref, cached
// briefly so rapid re-renders don't shell out each time.
func (s *GitSource) FetchDiff(ctx context.Context) (string, error) {
	return s.diffCache.Get(ctx, s.cacheKey(), struct{}{}, diffCacheTTL)
}

// Invalidate drops the cached diff so the next fetch re-runs git.
// Called when the watcher reports repository changes.
func (s *GitSource) Invalidate(ctx context.Context) {
	_ = s.diffCache.Invalidate(ctx, s.cacheKey())
	_ = s.contentCache.Flush(ctx)
}

func (s *GitSource) cacheKey() string {
	if s.ref == "" {
		return "working-dir"
	}
	return "ref:" + s.ref
}

func (s *GitSource) fetchDiffUncached() (string, error) {
	if s.ref != "" {
		return s.exec.GetDiff(s.ref)
	}

	diff, err := s.exec.GetWorkingDirDiff()
	if err != nil {
		return "", fmt.Errorf("failed to fetch working directory diff: %w", err)
	}

	// Untracked files have no diff yet; synthesize new-file blocks so
	// they show up in review alongside tracked changes.
	untracked, err := s.exec.GetUntrackedFiles()
	if err != nil {
		log.Warn(log.CatSource, "failed to list untracked files", "error", err)
		return diff, nil
	}

	var sb strings.Builder
	sb.WriteString(diff)
	for _, path := range untracked {
		content, err := s.exec.GetFileContent(path)
		if err != nil {
			log.Debug(log.CatSource, "skipping unreadable untracked file", "path", path)
			continue
		}
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(synthesizeNewFileDiff(path, content))
	}
	return sb.String(), nil
}

// synthesizeNewFileDiff builds a unified-diff block presenting content
// as a wholly new file at path.
func synthesizeNewFileDiff(path, content string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", path, path)
	sb.WriteString("new file mode 100644\n")
	sb.WriteString("--- /dev/null\n")
	fmt.Fprintf(&sb, "+++ b/%s\n", path)

	if content == "" {
		return sb.String()
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	fmt.Fprintf(&sb, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		sb.WriteString("+")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FetchContents reads up to ContentBatchSize files, serving from cache
// where possible. Unreadable files are skipped, not errors; the caller
// merges the partial result into what it already has.
func (s *GitSource) FetchContents(ctx context.Context, paths []string) (map[string]string, error) {
	if len(paths) > ContentBatchSize {
		paths = paths[:ContentBatchSize]
	}

	out := make(map[string]string, len(paths))
	for _, path := range paths {
		if content, ok := s.contentCache.Get(ctx, path); ok {
			out[path] = content
			continue
		}
		content, err := s.exec.GetFileContent(path)
		if err != nil {
			log.Debug(log.CatSource, "failed to read file content", "path", path, "error", err)
			continue
		}
		s.contentCache.Set(ctx, path, content, contentCacheTTL)
		out[path] = content
	}
	return out, nil
}

// MergeContents overlays fetched into existing without dropping entries
// that fetched lacks. The returned map is a new allocation.
func MergeContents(existing, fetched map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+len(fetched))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}
	return out
}
