package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareKeys_Numeric(t *testing.T) {
	require.Negative(t, CompareKeys("2", "10"))
	require.Positive(t, CompareKeys("10", "2"))
	require.Zero(t, CompareKeys("7", "7"))
}

func TestCompareKeys_LexicographicFallback(t *testing.T) {
	// "2a" does not parse as an integer, so "10" sorts first.
	require.Negative(t, CompareKeys("10", "2a"))
	require.Positive(t, CompareKeys("2a", "10"))
	require.Negative(t, CompareKeys("a.go->a.go", "b.go->b.go"))
}

func TestSortRecords_Stable(t *testing.T) {
	records := []FileDiffRecord{
		{Key: "10"},
		{Key: "2"},
		{Key: "b.go->b.go"},
		{Key: "a.go->a.go"},
	}
	SortRecords(records)

	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	// All-numeric pairs compare numerically, mixed pairs fall back to
	// string order.
	require.Equal(t, []string{"2", "10", "a.go->a.go", "b.go->b.go"}, keys)
}
