package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRegex   = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
	oldMarkerRegex    = regexp.MustCompile(`^--- (?:a/)?(.+)$`)
	newMarkerRegex    = regexp.MustCompile(`^\+\+\+ (?:b/)?(.+)$`)
	hunkMarkerRegex   = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+\d+(?:,\d+)? @@`)
	binaryMarkerRegex = regexp.MustCompile(`^Binary files .+ and .+ differ$`)
	modeOrRenameRegex = regexp.MustCompile(`^(?:old mode \d+|new mode \d+|new file mode \d+|deleted file mode \d+|similarity index \d+%|rename from .+|rename to .+)$`)
)

// Split parses a raw unified-diff blob into ordered per-file records.
// Malformed input produces fewer or simpler records, never an error.
// An empty blob yields nil; callers distinguish that ("no changes")
// from a blob that parsed to nothing ("no parseable file diffs").
func Split(raw string) []FileDiffRecord {
	if raw == "" {
		return nil
	}

	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	// Block boundaries at each per-file header, except the very first line
	// (a leading header starts block zero rather than terminating one).
	var starts []int
	for i, line := range lines {
		if i > 0 && fileHeaderRegex.MatchString(line) {
			starts = append(starts, i)
		}
	}

	bounds := append([]int{0}, starts...)
	var records []FileDiffRecord
	for i, start := range bounds {
		end := len(lines)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		block := lines[start:end]
		if !hasDiffMarker(block) {
			// Parse noise (e.g. command output preceding the diff), not a file.
			continue
		}
		records = append(records, buildRecord(block, len(records)))
	}

	return records
}

// hasDiffMarker reports whether a candidate block contains any
// recognizable diff structure.
func hasDiffMarker(block []string) bool {
	for _, line := range block {
		if fileHeaderRegex.MatchString(line) ||
			oldMarkerRegex.MatchString(line) ||
			newMarkerRegex.MatchString(line) ||
			binaryMarkerRegex.MatchString(line) {
			return true
		}
	}
	return false
}

func buildRecord(block []string, position int) FileDiffRecord {
	rec := FileDiffRecord{
		DiffText: strings.Join(block, "\n"),
	}

	for _, line := range block {
		switch {
		case fileHeaderRegex.MatchString(line):
			m := fileHeaderRegex.FindStringSubmatch(line)
			if rec.OldPath == "" {
				rec.OldPath = m[1]
			}
			if rec.NewPath == "" {
				rec.NewPath = m[2]
			}
		case line == "--- "+NoFilePath:
			rec.OldPath = NoFilePath
		case strings.HasPrefix(line, "--- "):
			if m := oldMarkerRegex.FindStringSubmatch(line); m != nil {
				rec.OldPath = m[1]
			}
		case line == "+++ "+NoFilePath:
			rec.NewPath = NoFilePath
		case strings.HasPrefix(line, "+++ "):
			if m := newMarkerRegex.FindStringSubmatch(line); m != nil {
				rec.NewPath = m[1]
			}
		case binaryMarkerRegex.MatchString(line):
			rec.IsBinary = true
		}

		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			rec.Additions++
		}
		if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			rec.Deletions++
		}
	}

	rec.Key = recordKey(rec.OldPath, rec.NewPath, position)
	if rec.IsBinary {
		rec.IsValid = true
	} else {
		rec.IsValid = validateBlock(rec.DiffText)
	}
	return rec
}

// recordKey derives the stable identity for a record. When neither path
// could be recovered, a positional synthetic key keeps the record
// addressable without colliding with real paths.
func recordKey(oldPath, newPath string, position int) string {
	if oldPath == "" && newPath == "" {
		return "block-" + strconv.Itoa(position)
	}
	return oldPath + "->" + newPath
}

// validateBlock checks a block for minimal unified-diff structure.
// It is deliberately lenient: mode changes, renames, and binary blocks
// pass without hunk markers, and hunk line arithmetic is never checked.
// Downstream rendering degrades per file for blocks that pass here but
// are not actually renderable.
func validateBlock(block string) bool {
	if strings.TrimSpace(block) == "" {
		return false
	}

	lines := strings.Split(block, "\n")
	oldIdx, newIdx := -1, -1
	for i, line := range lines {
		if binaryMarkerRegex.MatchString(line) || modeOrRenameRegex.MatchString(line) {
			return true
		}
		if oldIdx < 0 && strings.HasPrefix(line, "--- ") {
			oldIdx = i
		}
		if newIdx < 0 && strings.HasPrefix(line, "+++ ") {
			newIdx = i
		}
	}

	if oldIdx < 0 || newIdx < 0 || newIdx <= oldIdx {
		return false
	}

	for _, line := range lines[newIdx+1:] {
		if hunkMarkerRegex.MatchString(line) {
			return true
		}
	}
	return false
}
