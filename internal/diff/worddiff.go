package diff

import (
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Word diff bounds. Intraline highlighting is cosmetic, so it gives up
// early rather than stall a render pass.
const (
	wordDiffMaxLineLength = 500
	wordDiffMaxPairs      = 100
	wordDiffBudget        = 50 * time.Millisecond
)

// SegmentKind classifies a word-diff segment.
type SegmentKind int

const (
	SegmentUnchanged SegmentKind = iota
	SegmentAdded
	SegmentDeleted
)

// Segment is a run of text within a changed line pair.
type Segment struct {
	Kind SegmentKind
	Text string
}

// PairSegments holds intraline segments for one deletion/addition pair.
type PairSegments struct {
	Old []Segment // segments of the deleted line
	New []Segment // segments of the added line
}

// WordDiff holds intraline highlighting for a parsed file, keyed by
// (hunk index, line index within the hunk).
type WordDiff struct {
	pairs map[[2]int]PairSegments
}

// SegmentsFor returns the segments for a line, or nil when none were
// computed (unpaired line, over-length line, or budget exhausted).
func (w *WordDiff) SegmentsFor(hunkIdx, lineIdx int, t LineType) []Segment {
	if w == nil {
		return nil
	}
	p, ok := w.pairs[[2]int{hunkIdx, lineIdx}]
	if !ok {
		return nil
	}
	switch t {
	case LineDeletion:
		return p.Old
	case LineAddition:
		return p.New
	default:
		return nil
	}
}

// ComputeWordDiff finds adjacent deletion/addition pairs in each hunk
// and computes token-level segments for them, within a fixed time
// budget per file.
func ComputeWordDiff(f *File) *WordDiff {
	w := &WordDiff{pairs: make(map[[2]int]PairSegments)}
	if f == nil {
		return w
	}
	deadline := time.Now().Add(wordDiffBudget)

	for hi, hunk := range f.Hunks {
		pairCount := 0
		for li := 0; li < len(hunk.Lines)-1; li++ {
			if hunk.Lines[li].Type != LineDeletion || hunk.Lines[li+1].Type != LineAddition {
				continue
			}
			if time.Now().After(deadline) || pairCount >= wordDiffMaxPairs {
				break
			}
			del, add := hunk.Lines[li], hunk.Lines[li+1]
			if len(del.Content) > wordDiffMaxLineLength || len(add.Content) > wordDiffMaxLineLength {
				li++
				continue
			}
			segs := diffPair(del.Content, add.Content)
			w.pairs[[2]int{hi, li}] = segs
			w.pairs[[2]int{hi, li + 1}] = segs
			pairCount++
			li++
		}
	}
	return w
}

// diffPair computes token-level segments between a deleted and an added
// line using diffmatchpatch over NUL-joined tokens.
func diffPair(oldLine, newLine string) PairSegments {
	dmp := diffmatchpatch.New()
	oldText := strings.Join(tokenize(oldLine), "\x00")
	newText := strings.Join(tokenize(newLine), "\x00")

	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	var out PairSegments
	for _, d := range diffs {
		text := strings.ReplaceAll(d.Text, "\x00", "")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			out.Old = append(out.Old, Segment{Kind: SegmentUnchanged, Text: text})
			out.New = append(out.New, Segment{Kind: SegmentUnchanged, Text: text})
		case diffmatchpatch.DiffDelete:
			out.Old = append(out.Old, Segment{Kind: SegmentDeleted, Text: text})
		case diffmatchpatch.DiffInsert:
			out.New = append(out.New, Segment{Kind: SegmentAdded, Text: text})
		}
	}
	return out
}

// tokenize splits a line into words, whitespace, and punctuation tokens
// so the diff aligns on word boundaries instead of characters.
func tokenize(line string) []string {
	if line == "" {
		return nil
	}
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range line {
		switch {
		case unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
