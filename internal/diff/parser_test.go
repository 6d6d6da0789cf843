package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFile_SingleHunk(t *testing.T) {
	input := `diff --git a/file.go b/file.go
index abc1234..def5678 100644
--- a/file.go
+++ b/file.go
@@ -10,6 +10,7 @@ func example() {
 	context line
-	deleted line
+	added line
 	more context
`

	f, err := ParseFile(input)
	require.NoError(t, err)
	require.Equal(t, "file.go", f.OldPath)
	require.Equal(t, "file.go", f.NewPath)
	require.Equal(t, 1, f.Additions)
	require.Equal(t, 1, f.Deletions)
	require.Len(t, f.Hunks, 1)

	h := f.Hunks[0]
	require.Equal(t, 10, h.OldStart)
	require.Equal(t, 6, h.OldCount)
	require.Equal(t, 10, h.NewStart)
	require.Equal(t, 7, h.NewCount)

	var del, add *Line
	for i := range h.Lines {
		switch h.Lines[i].Type {
		case LineDeletion:
			del = &h.Lines[i]
		case LineAddition:
			add = &h.Lines[i]
		}
	}
	require.NotNil(t, del)
	require.Equal(t, 11, del.OldLineNum)
	require.Zero(t, del.NewLineNum)
	require.NotNil(t, add)
	require.Zero(t, add.OldLineNum)
	require.Equal(t, 11, add.NewLineNum)
}

func TestParseFile_DefaultHunkCounts(t *testing.T) {
	input := "--- a/x\n+++ b/x\n@@ -5 +5 @@\n-a\n+b\n"
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.Equal(t, 1, f.Hunks[0].OldCount)
	require.Equal(t, 1, f.Hunks[0].NewCount)
}

func TestParseFile_Binary(t *testing.T) {
	input := "diff --git a/image.png b/image.png\nindex abc1234..def5678 100644\nBinary files a/image.png and b/image.png differ\n"
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.True(t, f.IsBinary)
	require.Empty(t, f.Hunks)
}

func TestParseFile_Renamed(t *testing.T) {
	input := `diff --git a/old_name.go b/new_name.go
similarity index 95%
rename from old_name.go
rename to new_name.go
index abc1234..def5678 100644
--- a/old_name.go
+++ b/new_name.go
@@ -10,3 +10,3 @@ func foo() {
 a
-b
+c
`
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.True(t, f.IsRenamed)
	require.Equal(t, "old_name.go", f.OldPath)
	require.Equal(t, "new_name.go", f.NewPath)
}

func TestParseFile_NewFile(t *testing.T) {
	input := "diff --git a/n.go b/n.go\nnew file mode 100644\n--- /dev/null\n+++ b/n.go\n@@ -0,0 +1,2 @@\n+one\n+two\n"
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.True(t, f.IsNew)
	require.Equal(t, NoFilePath, f.OldPath)
	require.Equal(t, 2, f.Additions)
}

func TestParseFile_NoNewlineMarkerSkipped(t *testing.T) {
	input := "--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n\\ No newline at end of file\n"
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.Equal(t, 1, f.Additions)
	require.Equal(t, 1, f.Deletions)
}

func TestParseFile_NothingRenderable(t *testing.T) {
	_, err := ParseFile("just some text\nno markers here\n")
	require.ErrorIs(t, err, ErrNoHunks)
}

func TestParseFile_MultipleHunks(t *testing.T) {
	input := "--- a/x\n+++ b/x\n@@ -1,2 +1,2 @@\n-a\n+b\n context\n@@ -10,2 +10,2 @@\n-c\n+d\n context\n"
	f, err := ParseFile(input)
	require.NoError(t, err)
	require.Len(t, f.Hunks, 2)
	require.Equal(t, 10, f.Hunks[1].OldStart)
}
