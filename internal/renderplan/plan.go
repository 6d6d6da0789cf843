// Package renderplan decides which diff cards must be mounted for the
// current scroll position. Off-screen cards contribute only their
// height, so a thousand-file diff renders a handful of cards per frame.
package renderplan

import (
	"github.com/zjrosen/diffscope/internal/diff"
)

// Config holds the sizing heuristic knobs.
type Config struct {
	// CollapsedHeight is the fixed row height of a collapsed card.
	CollapsedHeight int

	// LinesPerRow scales addition+deletion counts into estimated rows
	// for expanded cards that have not been measured yet.
	LinesPerRow int

	// MinExpandedHeight and MaxExpandedHeight clamp the estimate.
	MinExpandedHeight int
	MaxExpandedHeight int

	// BufferRows extends the visible window above and below the
	// viewport so scrolling reveals already-mounted cards.
	BufferRows int

	// BatchSize bounds how many cards one SetAllExpanded call flips
	// before yielding back to the caller.
	BatchSize int
}

// DefaultConfig mirrors the card sizes used by the review UI.
func DefaultConfig() Config {
	return Config{
		CollapsedHeight:   3,
		LinesPerRow:       1,
		MinExpandedHeight: 6,
		MaxExpandedHeight: 80,
		BufferRows:        10,
		BatchSize:         50,
	}
}

// VisibleCard is one card the caller must mount this frame.
type VisibleCard struct {
	Index  int
	Key    string
	Offset int // absolute row offset of the card's first line
	Height int
}

// Plan tracks per-card expansion and height state over an ordered
// record list.
type Plan struct {
	cfg     Config
	records []diff.FileDiffRecord

	expanded map[string]bool
	measured map[string]int

	scrollOffset   int
	viewportHeight int

	// expandCursor is the resume point for batched expand/collapse.
	expandCursor int
}

// New creates a Plan over records with the given config. Records are
// expected to be pre-sorted with diff.SortRecords.
func New(records []diff.FileDiffRecord, cfg Config) *Plan {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.LinesPerRow <= 0 {
		cfg.LinesPerRow = 1
	}
	return &Plan{
		cfg:      cfg,
		records:  records,
		expanded: make(map[string]bool),
		measured: make(map[string]int),
	}
}

// SetRecords swaps the record list after a diff refresh. Expansion and
// measurement state persists by key, so unchanged files keep their
// heights and scroll position survives the refresh.
func (p *Plan) SetRecords(records []diff.FileDiffRecord) {
	p.records = records
	p.clampScrollOffset()
}

// SetViewport updates the viewport geometry.
func (p *Plan) SetViewport(height int) {
	p.viewportHeight = height
	p.clampScrollOffset()
}

// ScrollTo sets the absolute scroll offset, clamped to content bounds.
func (p *Plan) ScrollTo(offset int) {
	p.scrollOffset = offset
	p.clampScrollOffset()
}

// ScrollBy adjusts the scroll offset by delta rows.
func (p *Plan) ScrollBy(delta int) {
	p.ScrollTo(p.scrollOffset + delta)
}

// ScrollOffset returns the current absolute scroll offset.
func (p *Plan) ScrollOffset() int {
	return p.scrollOffset
}

// ScrollToCard positions the viewport so the card with key sits at the
// top. Unknown keys are ignored.
func (p *Plan) ScrollToCard(key string) {
	offset := 0
	for _, rec := range p.records {
		if rec.Key == key {
			p.ScrollTo(offset)
			return
		}
		offset += p.cardHeight(rec)
	}
}

// IsExpanded reports whether the card with key is expanded.
func (p *Plan) IsExpanded(key string) bool {
	return p.expanded[key]
}

// SetExpanded sets one card's expansion state.
func (p *Plan) SetExpanded(key string, expanded bool) {
	p.expanded[key] = expanded
	p.clampScrollOffset()
}

// Toggle flips one card's expansion state and reports the new state.
func (p *Plan) Toggle(key string) bool {
	p.expanded[key] = !p.expanded[key]
	p.clampScrollOffset()
	return p.expanded[key]
}

// SetAllExpanded flips up to BatchSize cards toward the target state
// and reports whether every card now matches it. Callers loop —
// typically one batch per event-loop tick — until it returns true, so
// a large file set never blocks a single frame.
func (p *Plan) SetAllExpanded(expanded bool) (done bool) {
	if p.expandCursor >= len(p.records) {
		p.expandCursor = 0
	}
	flipped := 0
	for p.expandCursor < len(p.records) && flipped < p.cfg.BatchSize {
		key := p.records[p.expandCursor].Key
		if p.expanded[key] != expanded {
			p.expanded[key] = expanded
			flipped++
		}
		p.expandCursor++
	}
	if p.expandCursor >= len(p.records) {
		p.expandCursor = 0
		p.clampScrollOffset()
		return true
	}
	return false
}

// SetMeasuredHeight records the real rendered height for a card,
// superseding the estimate. Re-measurement is expected; the latest
// value wins.
func (p *Plan) SetMeasuredHeight(key string, height int) {
	if height <= 0 {
		return
	}
	p.measured[key] = height
	p.clampScrollOffset()
}

// cardHeight returns the current height for one record: the collapsed
// constant, the last real measurement, or the clamped line-count
// estimate, in that order of preference.
func (p *Plan) cardHeight(rec diff.FileDiffRecord) int {
	if !p.expanded[rec.Key] {
		return p.cfg.CollapsedHeight
	}
	if h, ok := p.measured[rec.Key]; ok {
		return h
	}
	return p.estimateHeight(rec)
}

func (p *Plan) estimateHeight(rec diff.FileDiffRecord) int {
	h := (rec.Additions + rec.Deletions) * p.cfg.LinesPerRow
	if h < p.cfg.MinExpandedHeight {
		h = p.cfg.MinExpandedHeight
	}
	if h > p.cfg.MaxExpandedHeight {
		h = p.cfg.MaxExpandedHeight
	}
	return h
}

// TotalHeight returns the summed height of all cards.
func (p *Plan) TotalHeight() int {
	total := 0
	for _, rec := range p.records {
		total += p.cardHeight(rec)
	}
	return total
}

// Visible returns the cards intersecting the viewport plus BufferRows
// on both sides, with their absolute offsets, in display order.
func (p *Plan) Visible() []VisibleCard {
	if p.viewportHeight <= 0 || len(p.records) == 0 {
		return nil
	}
	top := p.scrollOffset - p.cfg.BufferRows
	bottom := p.scrollOffset + p.viewportHeight + p.cfg.BufferRows

	var out []VisibleCard
	offset := 0
	for i, rec := range p.records {
		h := p.cardHeight(rec)
		if offset+h > top && offset < bottom {
			out = append(out, VisibleCard{Index: i, Key: rec.Key, Offset: offset, Height: h})
		}
		offset += h
		if offset >= bottom {
			break
		}
	}
	return out
}

// clampScrollOffset keeps the viewport inside the content. Height
// changes from expansion or re-measurement shrink content; the offset
// follows rather than leaving the viewport past the end.
func (p *Plan) clampScrollOffset() {
	max := p.TotalHeight() - p.viewportHeight
	if max < 0 {
		max = 0
	}
	if p.scrollOffset > max {
		p.scrollOffset = max
	}
	if p.scrollOffset < 0 {
		p.scrollOffset = 0
	}
}
