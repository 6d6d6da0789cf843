package diff

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	hunkHeaderRegex      = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@(.*)$`)
	similarityRegex      = regexp.MustCompile(`^similarity index (\d+)%$`)
	renameFromRegex      = regexp.MustCompile(`^rename from (.+)$`)
	renameToRegex        = regexp.MustCompile(`^rename to (.+)$`)
	newFileModeRegex     = regexp.MustCompile(`^new file mode (\d+)$`)
	deletedFileModeRegex = regexp.MustCompile(`^deleted file mode (\d+)$`)
	indexLineRegex       = regexp.MustCompile(`^index [a-f0-9]+\.\.[a-f0-9]+`)
	modeLineRegex        = regexp.MustCompile(`^(?:old|new) mode \d+$`)
)

// ErrNoHunks is returned when a block contains no renderable hunks and
// no binary marker. Callers fall back to raw-text rendering.
var ErrNoHunks = errors.New("diff block contains no hunks")

// ParseFile parses one record's diff block into hunk structure for
// rendering. It handles new/deleted files, renames, mode changes, and
// binary markers. Unknown line prefixes are skipped, not errors; only a
// block with nothing renderable at all fails.
func ParseFile(block string) (*File, error) {
	f := &File{}
	var hunk *Hunk
	oldNum, newNum := 0, 0

	for _, line := range strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n") {
		// Header lines only appear before the first hunk; once hunk
		// content starts, a line like "--- foo" is a deletion, not a
		// marker.
		if hunk == nil {
			if handled := parseHeaderLine(f, line); handled {
				continue
			}
		}

		if m := hunkHeaderRegex.FindStringSubmatch(line); m != nil {
			if hunk != nil {
				f.Hunks = append(f.Hunks, *hunk)
			}
			oldStart, _ := strconv.Atoi(m[1])
			newStart, _ := strconv.Atoi(m[3])
			oldCount, newCount := 1, 1
			if m[2] != "" {
				oldCount, _ = strconv.Atoi(m[2])
			}
			if m[4] != "" {
				newCount, _ = strconv.Atoi(m[4])
			}
			hunk = &Hunk{
				OldStart: oldStart,
				OldCount: oldCount,
				NewStart: newStart,
				NewCount: newCount,
				Header:   line,
				Lines: []Line{{
					Type:    LineHunkHeader,
					Content: strings.TrimSpace(m[5]),
				}},
			}
			oldNum, newNum = oldStart, newStart
			continue
		}

		if hunk == nil {
			continue
		}

		if line == "" {
			hunk.Lines = append(hunk.Lines, Line{Type: LineContext, OldLineNum: oldNum, NewLineNum: newNum})
			oldNum++
			newNum++
			continue
		}

		content := line[1:]
		switch line[0] {
		case ' ':
			hunk.Lines = append(hunk.Lines, Line{Type: LineContext, OldLineNum: oldNum, NewLineNum: newNum, Content: content})
			oldNum++
			newNum++
		case '-':
			hunk.Lines = append(hunk.Lines, Line{Type: LineDeletion, OldLineNum: oldNum, Content: content})
			f.Deletions++
			oldNum++
		case '+':
			hunk.Lines = append(hunk.Lines, Line{Type: LineAddition, NewLineNum: newNum, Content: content})
			f.Additions++
			newNum++
		case '\\':
			// "\ No newline at end of file"
		default:
			// Unknown prefix, likely trailing noise. Skip.
		}
	}

	if hunk != nil {
		f.Hunks = append(f.Hunks, *hunk)
	}
	if len(f.Hunks) == 0 && !f.IsBinary {
		return nil, ErrNoHunks
	}
	return f, nil
}

// parseHeaderLine consumes a pre-hunk header line, updating file
// metadata. It reports whether the line was recognized.
func parseHeaderLine(f *File, line string) bool {
	switch {
	case fileHeaderRegex.MatchString(line):
		m := fileHeaderRegex.FindStringSubmatch(line)
		f.OldPath, f.NewPath = m[1], m[2]
	case line == "--- "+NoFilePath:
		f.IsNew = true
		f.OldPath = NoFilePath
	case strings.HasPrefix(line, "--- "):
		if m := oldMarkerRegex.FindStringSubmatch(line); m != nil {
			f.OldPath = m[1]
		}
	case line == "+++ "+NoFilePath:
		f.IsDeleted = true
		f.NewPath = NoFilePath
	case strings.HasPrefix(line, "+++ "):
		if m := newMarkerRegex.FindStringSubmatch(line); m != nil {
			f.NewPath = m[1]
		}
	case similarityRegex.MatchString(line):
		f.IsRenamed = true
	case renameFromRegex.MatchString(line):
		f.OldPath = renameFromRegex.FindStringSubmatch(line)[1]
		f.IsRenamed = true
	case renameToRegex.MatchString(line):
		f.NewPath = renameToRegex.FindStringSubmatch(line)[1]
		f.IsRenamed = true
	case binaryMarkerRegex.MatchString(line):
		f.IsBinary = true
	case newFileModeRegex.MatchString(line):
		f.IsNew = true
	case deletedFileModeRegex.MatchString(line):
		f.IsDeleted = true
	case indexLineRegex.MatchString(line), modeLineRegex.MatchString(line):
	default:
		return false
	}
	return true
}
