package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diffscope/internal/watcher"
)

func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0644))
	return dir
}

func startWatcher(t *testing.T, root string) (*watcher.Watcher, <-chan struct{}) {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		RepoRoot:    root,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return w, onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	root := newTestRepo(t)
	filePath := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(filePath, []byte("package main"), 0644))

	_, onChange := startWatcher(t, root)

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filePath, []byte(fmt.Sprintf("package main // %d", i)), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresEditorNoise(t *testing.T) {
	root := newTestRepo(t)
	swapPath := filepath.Join(root, ".main.go.swp")
	require.NoError(t, os.WriteFile(swapPath, []byte("initial"), 0644))

	_, onChange := startWatcher(t, root)

	require.NoError(t, os.WriteFile(swapPath, []byte("swap content"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify for editor swap files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification
	}
}

func TestWatcher_IgnoresGitObjectChurn(t *testing.T) {
	root := newTestRepo(t)
	lockPath := filepath.Join(root, ".git", "index.lock")

	_, onChange := startWatcher(t, root)

	require.NoError(t, os.WriteFile(lockPath, []byte("lock"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify for .git lock files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification
	}
}

func TestWatcher_NotifiesOnGitIndexWrite(t *testing.T) {
	root := newTestRepo(t)
	indexPath := filepath.Join(root, ".git", "index")

	_, onChange := startWatcher(t, root)

	// Staging rewrites the index; commits rewrite HEAD. Both must
	// trigger a refresh.
	require.NoError(t, os.WriteFile(indexPath, []byte("index data"), 0644))

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for .git/index write")
	}
}

func TestWatcher_Stop(t *testing.T) {
	root := newTestRepo(t)

	w, err := watcher.New(watcher.Config{
		RepoRoot:    root,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/repo")

	assert.Equal(t, "/repo", cfg.RepoRoot)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
}
