package diff

import (
	"sort"
	"strconv"
	"strings"
)

// CompareKeys orders two file keys or task identifiers. Keys that both
// parse fully as integers compare numerically ("2" before "10");
// anything else falls back to plain lexicographic comparison. Every
// consumer that orders records goes through this comparator so that
// display lists, navigation, and task rendering agree.
func CompareKeys(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// SortRecords orders records in place by key.
func SortRecords(records []FileDiffRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return CompareKeys(records[i].Key, records[j].Key) < 0
	})
}
