package reviewer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diffscope/internal/diff"
	"github.com/zjrosen/diffscope/internal/review"
)

func TestBuildSummaryMarkdown_CountsAndRemaining(t *testing.T) {
	records := diff.Split(sampleDiff)
	diff.SortRecords(records)
	tracker := review.NewTracker()
	tracker.MarkViewed(records[0].Key, records[0].DiffText)

	md := buildSummaryMarkdown(records, tracker)
	require.Contains(t, md, "**1 of 3** files viewed")
	require.Contains(t, md, "## Remaining")
	require.Contains(t, md, "alpha.go")
	require.Contains(t, md, "beta.go")
	require.NotContains(t, md, "- gamma.go", "viewed file is not listed as remaining")
}

func TestBuildSummaryMarkdown_AllViewed(t *testing.T) {
	records := diff.Split(sampleDiff)
	tracker := review.NewTracker()
	for _, rec := range records {
		tracker.MarkViewed(rec.Key, rec.DiffText)
	}

	md := buildSummaryMarkdown(records, tracker)
	require.Contains(t, md, "All files viewed.")
	require.NotContains(t, md, "## Remaining")
}

func TestBuildSummaryMarkdown_Empty(t *testing.T) {
	md := buildSummaryMarkdown(nil, review.NewTracker())
	require.Contains(t, md, "**0 of 0** files viewed")
}
