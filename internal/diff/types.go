// Package diff parses unified diff text into per-file records and
// renderable hunk structures.
package diff

// NoFilePath is the sentinel path for the missing side of an added or
// deleted file.
const NoFilePath = "/dev/null"

// FileDiffRecord is one file's slice of a unified diff blob.
// Records are immutable; a re-parse produces entirely new records.
type FileDiffRecord struct {
	Key       string // stable identity, "{oldPath}->{newPath}" or positional fallback
	OldPath   string // NoFilePath for added files
	NewPath   string // NoFilePath for deleted files
	DiffText  string // raw per-file block (header + hunks)
	IsBinary  bool
	Additions int
	Deletions int
	IsValid   bool // structural validation result; binary blocks are always valid
}

// DisplayPath returns the path to show for the record: the new path,
// falling back to the old path for deletions.
func (r FileDiffRecord) DisplayPath() string {
	if r.NewPath != "" && r.NewPath != NoFilePath {
		return r.NewPath
	}
	if r.OldPath != "" && r.OldPath != NoFilePath {
		return r.OldPath
	}
	return r.Key
}

// IsNew reports whether the record represents a newly added file.
func (r FileDiffRecord) IsNew() bool {
	return r.OldPath == NoFilePath
}

// IsDeleted reports whether the record represents a deleted file.
func (r FileDiffRecord) IsDeleted() bool {
	return r.NewPath == NoFilePath
}

// LineType classifies a line within a diff hunk.
type LineType int

const (
	LineContext    LineType = iota // ' ' prefix
	LineAddition                   // '+' prefix
	LineDeletion                   // '-' prefix
	LineHunkHeader                 // '@@ ... @@'
)

// Line is a single line in a hunk, with its position in both versions.
type Line struct {
	Type       LineType
	OldLineNum int // 0 for additions
	NewLineNum int // 0 for deletions
	Content    string
}

// Hunk is a contiguous changed region delimited by an @@ header.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Header   string // the raw @@ line
	Lines    []Line
}

// File is the fully parsed form of one record's block, used for
// rendering. Records whose blocks cannot be parsed stay as raw text.
type File struct {
	OldPath   string
	NewPath   string
	Additions int
	Deletions int
	IsBinary  bool
	IsRenamed bool
	IsNew     bool
	IsDeleted bool
	Hunks     []Hunk
}
