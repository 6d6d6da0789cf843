// Package reviewer provides the TUI for reviewing a diff file by file.
package reviewer

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/diffscope/internal/log"
	"github.com/zjrosen/diffscope/internal/review"
	"github.com/zjrosen/diffscope/internal/source"
	"github.com/zjrosen/diffscope/internal/tracing"
)

const fetchTimeout = 30 * time.Second

// DiffLoadedMsg carries a freshly fetched raw diff, or the fetch error.
type DiffLoadedMsg struct {
	Raw string
	Err error
}

// RepoChangedMsg signals that the watched repository changed on disk.
type RepoChangedMsg struct{}

// StatePersistedMsg reports the outcome of a background state save.
type StatePersistedMsg struct {
	Err error
}

// expandAllMsg drives one batch of an expand/collapse-all pass.
type expandAllMsg struct {
	expand bool
}

// openerDoneMsg reports the outcome of an external action.
type openerDoneMsg struct {
	action string
	err    error
}

// fileContentsMsg carries a fetched batch of file contents for the
// full-file overlay.
type fileContentsMsg struct {
	path     string
	contents map[string]string
	err      error
}

// LoadDiff fetches the current diff from the source.
// Fetch failures are delivered as a message, not a crash: the model
// keeps its previous records and the user can retry with refresh.
func LoadDiff(src source.DiffSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		ctx, span := tracing.Start(ctx, tracing.SpanFetchDiff)
		raw, err := src.FetchDiff(ctx)
		span.SetAttributes(attribute.Int(tracing.AttrDiffBytes, len(raw)))
		tracing.End(span, err)

		if err != nil {
			log.ErrorErr(log.CatUI, "Diff fetch failed", err)
		}
		return DiffLoadedMsg{Raw: raw, Err: err}
	}
}

// WatchRepo blocks on the watcher's event channel and converts the
// next event into a message. The model re-issues this command after
// each event to keep listening.
func WatchRepo(events <-chan struct{}) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return RepoChangedMsg{}
	}
}

// loadFileContents fetches one file's working-tree content for the
// full-file overlay. Contents arrive as a batch map so the model can
// merge them without dropping what it already fetched.
func loadFileContents(cs source.ContentSource, path string) tea.Cmd {
	if cs == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		ctx, span := tracing.Start(ctx, tracing.SpanFetchContent,
			attribute.String(tracing.AttrFilePath, path))
		contents, err := cs.FetchContents(ctx, []string{path})
		tracing.End(span, err)

		return fileContentsMsg{path: path, contents: contents, err: err}
	}
}

// expandAllCmd schedules the next batch of an expand/collapse-all pass.
// Each batch runs in its own Update so a large file set never blocks a
// single frame.
func expandAllCmd(expand bool) tea.Cmd {
	return func() tea.Msg {
		return expandAllMsg{expand: expand}
	}
}

// persistState snapshots the tracker and saves it in the background.
func persistState(p Persister, sessionID string, states map[string]review.ViewedState) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		_, span := tracing.Start(context.Background(), tracing.SpanSaveReviews,
			attribute.String(tracing.AttrReviewSession, sessionID),
			attribute.Int(tracing.AttrReviewTotal, len(states)))
		err := p.Save(sessionID, states)
		tracing.End(span, err)
		return StatePersistedMsg{Err: err}
	}
}
