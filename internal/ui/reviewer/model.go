package reviewer

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/diffscope/internal/config"
	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/keys"
	"github.com/zjrosen/diffscope/internal/log"
	"github.com/zjrosen/diffscope/internal/opener"
	"github.com/zjrosen/diffscope/internal/renderplan"
	"github.com/zjrosen/diffscope/internal/review"
	"github.com/zjrosen/diffscope/internal/source"
	"github.com/zjrosen/diffscope/internal/tracing"
)

// logTailCap bounds the in-memory log tail shown by the log overlay.
const logTailCap = 200

// Persister saves viewed state out of band. *sqlite.Repository
// satisfies it; a nil Persister means per-run state only.
type Persister interface {
	Save(sessionID string, states map[string]review.ViewedState) error
}

// Options wires the model's collaborators.
type Options struct {
	Config    config.Config
	Source    source.DiffSource
	Contents  source.ContentSource // nil disables the full-file overlay
	Opener    opener.Opener
	Tracker   *review.Tracker
	Persister Persister
	SessionID string
	// RepoEvents is the watcher's debounced change channel. Nil
	// disables auto refresh.
	RepoEvents <-chan struct{}
}

// Model is the top-level Bubble Tea model for the review screen.
type Model struct {
	cfg        config.Config
	keys       keys.KeyMap
	src        source.DiffSource
	contentSrc source.ContentSource
	opener     opener.Opener

	tracker   *review.Tracker
	persister Persister
	sessionID string

	records  []diff.FileDiffRecord
	parsed   map[string]*parsedFile
	plan     *renderplan.Plan
	selected int

	// contents holds working-tree file text fetched for the full-file
	// overlay, merged batch by batch.
	contents map[string]string
	fileView string // path shown in the full-file overlay, "" = none

	repoEvents  <-chan struct{}
	logListener *log.LogListener
	logTail     []string

	width  int
	height int

	loading     bool
	err         error
	wordDiff    bool
	showHelp    bool
	showSummary bool
	showLogs    bool
}

// parsedFile caches the parse result for one record's block so
// expanded cards don't re-parse every frame.
type parsedFile struct {
	file *diff.File
	wd   *diff.WordDiff
	err  error
}

// New creates the review model.
func New(opts Options) Model {
	planCfg := renderplan.DefaultConfig()
	if opts.Config.Diff.CollapsedHeight > 0 {
		planCfg.CollapsedHeight = opts.Config.Diff.CollapsedHeight
	}
	if opts.Config.Diff.MaxExpandedHeight > 0 {
		planCfg.MaxExpandedHeight = opts.Config.Diff.MaxExpandedHeight
	}
	if opts.Config.Diff.ExpandBatchSize > 0 {
		planCfg.BatchSize = opts.Config.Diff.ExpandBatchSize
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = review.NewTracker()
	}

	return Model{
		cfg:         opts.Config,
		keys:        keys.DefaultKeyMap(),
		src:         opts.Source,
		contentSrc:  opts.Contents,
		opener:      opts.Opener,
		tracker:     tracker,
		persister:   opts.Persister,
		sessionID:   opts.SessionID,
		parsed:      make(map[string]*parsedFile),
		contents:    make(map[string]string),
		plan:        renderplan.New(nil, planCfg),
		repoEvents:  opts.RepoEvents,
		logListener: log.NewListener(context.Background()),
		loading:     true,
		wordDiff:    opts.Config.UI.WordDiff,
	}
}

// Init starts the initial diff fetch and the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(LoadDiff(m.src), WatchRepo(m.repoEvents), m.listenLogs())
}

// listenLogs re-arms the log-tail subscription. Nil when the debug
// logger was never initialized.
func (m Model) listenLogs() tea.Cmd {
	if m.logListener == nil {
		return nil
	}
	return m.logListener.Listen()
}

// Update handles messages for the review screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.plan.SetViewport(m.contentHeight())
		return m, nil

	case DiffLoadedMsg:
		return m.handleDiffLoaded(msg)

	case RepoChangedMsg:
		// Keep listening regardless; refresh only when enabled.
		cmds := []tea.Cmd{WatchRepo(m.repoEvents)}
		if m.cfg.AutoRefresh {
			log.Info(log.CatUI, "Repository changed, refreshing diff")
			m.loading = true
			m.invalidateSource()
			cmds = append(cmds, LoadDiff(m.src))
		}
		return m, tea.Batch(cmds...)

	case expandAllMsg:
		if m.plan.SetAllExpanded(msg.expand) {
			return m, nil
		}
		return m, expandAllCmd(msg.expand)

	case StatePersistedMsg:
		if msg.Err != nil {
			log.ErrorErr(log.CatUI, "Failed to persist viewed state", msg.Err)
		}
		return m, nil

	case openerDoneMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatOpener, "External action failed", msg.err, "action", msg.action)
			m.err = msg.err
		}
		return m, nil

	case fileContentsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.contents = source.MergeContents(m.contents, msg.contents)
		if _, ok := m.contents[msg.path]; ok {
			m.fileView = msg.path
		}
		return m, nil

	case log.LogEvent:
		m.logTail = append(m.logTail, strings.TrimRight(msg.Payload, "\n"))
		if len(m.logTail) > logTailCap {
			m.logTail = m.logTail[len(m.logTail)-logTailCap:]
		}
		return m, m.listenLogs()
	}

	return m, nil
}

func (m Model) handleDiffLoaded(msg DiffLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		// Previous records stay usable; refresh retries the fetch.
		m.err = msg.Err
		return m, nil
	}
	m.err = nil

	_, span := tracing.Start(context.Background(), tracing.SpanSplitDiff,
		attribute.Int(tracing.AttrDiffBytes, len(msg.Raw)))
	records := diff.Split(msg.Raw)
	diff.SortRecords(records)
	span.SetAttributes(attribute.Int(tracing.AttrDiffFileCount, len(records)))
	tracing.End(span, nil)

	// Stale state must be dropped before any viewed query trusts it.
	stale := m.tracker.InvalidateStale(records)
	if len(stale) > 0 {
		log.Info(log.CatUI, "Invalidated stale viewed state", "count", len(stale))
	}

	m.records = records
	m.parsed = make(map[string]*parsedFile)
	m.plan.SetRecords(records)
	if m.selected >= len(records) {
		m.selected = max(0, len(records)-1)
	}

	var cmds []tea.Cmd
	if len(stale) > 0 {
		cmds = append(cmds, m.persistCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Overlays swallow everything except their dismiss keys.
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}
	if m.showSummary {
		if key.Matches(msg, m.keys.Summary) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showSummary = false
		}
		return m, nil
	}
	if m.fileView != "" {
		if key.Matches(msg, m.keys.FullFile) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.fileView = ""
		}
		return m, nil
	}
	if m.showLogs {
		if key.Matches(msg, m.keys.LogView) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showLogs = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.err = nil
		return m, nil

	// Navigation
	case key.Matches(msg, m.keys.Up):
		m.plan.ScrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.plan.ScrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.plan.ScrollBy(-m.contentHeight() / 2)
	case key.Matches(msg, m.keys.PageDown):
		m.plan.ScrollBy(m.contentHeight() / 2)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.plan.ScrollTo(0)
	case key.Matches(msg, m.keys.Bottom):
		if len(m.records) > 0 {
			m.selected = len(m.records) - 1
		}
		m.plan.ScrollTo(m.plan.TotalHeight())
	case key.Matches(msg, m.keys.NextFile):
		m.selectFile(m.selected + 1)
	case key.Matches(msg, m.keys.PrevFile):
		m.selectFile(m.selected - 1)

	// Review actions
	case key.Matches(msg, m.keys.ToggleViewed):
		if rec, ok := m.selectedRecord(); ok {
			// Marking a file viewed moves focus to the next unviewed
			// one, wrapping; unmarking stays put.
			if m.tracker.ToggleViewed(rec.Key, rec.DiffText) {
				if next := m.tracker.NextUnviewed(m.records, rec.Key); next != "" {
					m.selectKey(next)
				}
			}
			return m, m.persistCmd()
		}
	case key.Matches(msg, m.keys.MarkAllViewed):
		for _, rec := range m.records {
			m.tracker.MarkViewed(rec.Key, rec.DiffText)
		}
		if len(m.records) > 0 {
			// Marking everything viewed also collapses every card.
			return m, tea.Batch(m.persistCmd(), expandAllCmd(false))
		}
	case key.Matches(msg, m.keys.Undo):
		if _, ok := m.tracker.Undo(); ok {
			return m, m.persistCmd()
		}
	case key.Matches(msg, m.keys.NextUnviewed):
		current := ""
		if rec, ok := m.selectedRecord(); ok {
			current = rec.Key
		}
		if next := m.tracker.NextUnviewed(m.records, current); next != "" {
			m.selectKey(next)
		}

	// Card actions
	case key.Matches(msg, m.keys.ToggleExpand):
		if rec, ok := m.selectedRecord(); ok {
			m.plan.Toggle(rec.Key)
			m.plan.ScrollToCard(rec.Key)
		}
	case key.Matches(msg, m.keys.ExpandAll):
		return m, expandAllCmd(true)
	case key.Matches(msg, m.keys.CollapseAll):
		return m, expandAllCmd(false)
	case key.Matches(msg, m.keys.WordDiff):
		m.wordDiff = !m.wordDiff
	case key.Matches(msg, m.keys.FullFile):
		if rec, ok := m.selectedRecord(); ok && !rec.IsBinary && !rec.IsDeleted() {
			path := rec.DisplayPath()
			if _, cached := m.contents[path]; cached {
				m.fileView = path
			} else if cmd := loadFileContents(m.contentSrc, path); cmd != nil {
				return m, cmd
			}
		}

	// External actions
	case key.Matches(msg, m.keys.OpenEditor):
		if rec, ok := m.selectedRecord(); ok {
			return m, m.openerCmd("editor", func() error {
				return m.opener.OpenInEditor(rec.DisplayPath(), firstChangedLine(m.parsedFor(rec)))
			})
		}
	case key.Matches(msg, m.keys.Reveal):
		if rec, ok := m.selectedRecord(); ok {
			return m, m.openerCmd("reveal", func() error {
				return m.opener.Reveal(rec.DisplayPath())
			})
		}
	case key.Matches(msg, m.keys.YankPath):
		if rec, ok := m.selectedRecord(); ok {
			return m, m.openerCmd("yank", func() error {
				return m.opener.CopyPath(rec.DisplayPath())
			})
		}

	// General
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.invalidateSource()
		return m, LoadDiff(m.src)
	case key.Matches(msg, m.keys.Summary):
		m.showSummary = true
	case key.Matches(msg, m.keys.LogView):
		m.showLogs = true
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}

	return m, nil
}

// selectFile moves the selection, clamped to the record range, and
// scrolls the selected card into view.
func (m *Model) selectFile(idx int) {
	if len(m.records) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.records) {
		idx = len(m.records) - 1
	}
	m.selected = idx
	m.plan.ScrollToCard(m.records[idx].Key)
}

// selectKey selects the record with the given key, if present.
func (m *Model) selectKey(key string) {
	for i, rec := range m.records {
		if rec.Key == key {
			m.selectFile(i)
			return
		}
	}
}

func (m Model) selectedRecord() (diff.FileDiffRecord, bool) {
	if m.selected < 0 || m.selected >= len(m.records) {
		return diff.FileDiffRecord{}, false
	}
	return m.records[m.selected], true
}

// parsedFor returns the cached parse for a record, computing it on
// first use. Invalid and binary records parse to nil.
func (m *Model) parsedFor(rec diff.FileDiffRecord) *parsedFile {
	if p, ok := m.parsed[rec.Key]; ok {
		return p
	}
	p := &parsedFile{}
	if rec.IsValid && !rec.IsBinary {
		p.file, p.err = diff.ParseFile(rec.DiffText)
		if p.file != nil {
			p.wd = diff.ComputeWordDiff(p.file)
		}
	}
	m.parsed[rec.Key] = p
	return p
}

// firstChangedLine returns the new-file line number of the first
// addition (or hunk start), for editor jumps. 0 means unknown.
func firstChangedLine(p *parsedFile) int {
	if p == nil || p.file == nil || len(p.file.Hunks) == 0 {
		return 0
	}
	for _, h := range p.file.Hunks {
		for _, l := range h.Lines {
			if l.Type == diff.LineAddition {
				return l.NewLineNum
			}
		}
	}
	return p.file.Hunks[0].NewStart
}

// invalidateSource drops the source's cached diff so the next fetch
// hits the repository.
func (m Model) invalidateSource() {
	if inv, ok := m.src.(interface{ Invalidate(context.Context) }); ok {
		inv.Invalidate(context.Background())
	}
}

func (m Model) persistCmd() tea.Cmd {
	if m.persister == nil {
		return nil
	}
	return persistState(m.persister, m.sessionID, m.tracker.Snapshot())
}

func (m Model) openerCmd(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return openerDoneMsg{action: action, err: fn()}
	}
}

// contentHeight is the viewport height available to cards.
func (m Model) contentHeight() int {
	h := m.height
	if m.cfg.UI.ShowStatusBar {
		h--
	}
	if h < 0 {
		h = 0
	}
	return h
}

// ViewedCount returns how many records are currently viewed.
func (m Model) ViewedCount() int {
	n := 0
	for _, rec := range m.records {
		if m.tracker.IsViewed(rec.Key, rec.DiffText) {
			n++
		}
	}
	return n
}

// Records exposes the current records, for embedding screens.
func (m Model) Records() []diff.FileDiffRecord {
	return m.records
}
