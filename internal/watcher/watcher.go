// Package watcher provides file system watching with debouncing for
// auto-refreshing the diff when the working tree or git state changes.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a git repository for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	repoRoot  string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	RepoRoot    string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(repoRoot string) Config {
	return Config{
		RepoRoot:    repoRoot,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new repository watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		repoRoot:  cfg.RepoRoot,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the repository root and its immediate
// subdirectories, plus .git for index/HEAD updates (commits, branch
// switches). Returns a channel that receives a signal after changes
// settle for the debounce duration.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.repoRoot); err != nil {
		return nil, fmt.Errorf("watching repository root %s: %w", w.repoRoot, err)
	}

	// fsnotify does not recurse; cover the first level of directories,
	// which catches the common case without watching the whole tree.
	entries, err := os.ReadDir(w.repoRoot)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() || e.Name() == ".git" {
				continue
			}
			// Best effort; a missing watch just means fewer triggers.
			_ = w.fsWatcher.Add(filepath.Join(w.repoRoot, e.Name()))
		}
	}

	gitDir := filepath.Join(w.repoRoot, ".git")
	if _, err := os.Stat(gitDir); err == nil {
		_ = w.fsWatcher.Add(gitDir)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Callers can wrap the watcher if they need error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a diff refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := filepath.Rel(w.repoRoot, event.Name)
	if err != nil {
		return false
	}

	// Inside .git, only index and HEAD matter: they move on staging,
	// commits, and branch switches. Everything else (lock files,
	// objects, packed refs) churns constantly.
	if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
		base := filepath.Base(event.Name)
		return base == "index" || base == "HEAD"
	}

	// Lock and swap files are editor noise.
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") {
		return false
	}
	return true
}
