package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const twoFileDiff = `diff --git a/cmd/root.go b/cmd/root.go
index abc1234..def5678 100644
--- a/cmd/root.go
+++ b/cmd/root.go
@@ -1,3 +1,4 @@
 package cmd
+// added
-// removed
 // kept
diff --git a/assets/logo.png b/assets/logo.png
index 1111111..2222222 100644
Binary files a/assets/logo.png and b/assets/logo.png differ
`

func TestSplit_EmptyInput(t *testing.T) {
	require.Nil(t, Split(""))
}

func TestSplit_TwoFiles(t *testing.T) {
	records := Split(twoFileDiff)
	require.Len(t, records, 2)

	first := records[0]
	require.Equal(t, "cmd/root.go->cmd/root.go", first.Key)
	require.Equal(t, "cmd/root.go", first.OldPath)
	require.Equal(t, "cmd/root.go", first.NewPath)
	require.True(t, first.IsValid)
	require.False(t, first.IsBinary)
	require.Equal(t, 1, first.Additions)
	require.Equal(t, 1, first.Deletions)

	second := records[1]
	require.True(t, second.IsBinary)
	require.True(t, second.IsValid)
	require.Equal(t, "assets/logo.png", second.NewPath)
}

func TestSplit_CountsExcludeFileMarkers(t *testing.T) {
	input := "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1,2 +1,3 @@\n line\n+one\n+two\n-gone\n"
	records := Split(input)
	require.Len(t, records, 1)
	require.Equal(t, 2, records[0].Additions)
	require.Equal(t, 1, records[0].Deletions)
}

func TestSplit_NewAndDeletedFiles(t *testing.T) {
	input := "diff --git a/new.go b/new.go\nnew file mode 100644\n--- /dev/null\n+++ b/new.go\n@@ -0,0 +1,2 @@\n+a\n+b\n" +
		"diff --git a/old.go b/old.go\ndeleted file mode 100644\n--- a/old.go\n+++ /dev/null\n@@ -1,1 +0,0 @@\n-a\n"
	records := Split(input)
	require.Len(t, records, 2)

	require.True(t, records[0].IsNew())
	require.Equal(t, NoFilePath, records[0].OldPath)
	require.Equal(t, "new.go", records[0].NewPath)
	require.Equal(t, 2, records[0].Additions)

	require.True(t, records[1].IsDeleted())
	require.Equal(t, NoFilePath, records[1].NewPath)
	require.Equal(t, 1, records[1].Deletions)
}

func TestSplit_DiscardsNoiseBlocks(t *testing.T) {
	input := "warning: LF will be replaced by CRLF\nsome other tool output\ndiff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"
	records := Split(input)
	require.Len(t, records, 1)
	require.Equal(t, "x->x", records[0].Key)
}

func TestSplit_LeadingHeaderStartsFirstBlock(t *testing.T) {
	records := Split(twoFileDiff)
	require.Len(t, records, 2)
	require.True(t, strings.HasPrefix(records[0].DiffText, "diff --git a/cmd/root.go"))
}

func TestSplit_CRLFNormalized(t *testing.T) {
	unix := "diff --git a/x b/x\n--- a/x\n+++ b/x\n@@ -1 +1 @@\n-a\n+b\n"
	dos := strings.ReplaceAll(unix, "\n", "\r\n")
	require.Equal(t, Split(unix), Split(dos))
}

func TestSplit_SyntheticKeyForUnrecoverablePaths(t *testing.T) {
	// Old/new markers without recoverable paths still produce a record
	// with a positional key once they carry a hunk.
	input := "Binary files x and y differ\n"
	records := Split(input)
	require.Len(t, records, 1)
	require.Equal(t, "block-0", records[0].Key)
	require.True(t, records[0].IsBinary)
	require.True(t, records[0].IsValid)
}

func TestValidateBlock_Boundary(t *testing.T) {
	withoutHunk := "--- a/x\n+++ b/x\n"
	require.False(t, validateBlock(withoutHunk))
	require.True(t, validateBlock(withoutHunk+"@@ -1,1 +1,1 @@\n"))
}

func TestValidateBlock_MarkerOrder(t *testing.T) {
	require.False(t, validateBlock("+++ b/x\n--- a/x\n@@ -1 +1 @@\n"))
}

func TestValidateBlock_ModeChangeAndRenameExempt(t *testing.T) {
	require.True(t, validateBlock("diff --git a/x b/x\nold mode 100644\nnew mode 100755\n"))
	require.True(t, validateBlock("diff --git a/x b/y\nsimilarity index 100%\nrename from x\nrename to y\n"))
}

func TestValidateBlock_Empty(t *testing.T) {
	require.False(t, validateBlock(""))
	require.False(t, validateBlock("  \n\t\n"))
}

func TestSplit_Idempotent(t *testing.T) {
	a := Split(twoFileDiff)
	b := Split(twoFileDiff)
	require.Equal(t, a, b)
}

// TestSplit_IdempotentRapid feeds arbitrary text, including fragments
// that resemble diffs, and checks that parsing is deterministic and
// never panics.
func TestSplit_IdempotentRapid(t *testing.T) {
	fragments := []string{
		"diff --git a/f b/f\n", "--- a/f\n", "+++ b/f\n",
		"@@ -1,2 +1,2 @@\n", "+added\n", "-removed\n", " context\n",
		"Binary files a/f and b/f differ\n", "garbage\n", "\r\n", "",
	}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		var sb strings.Builder
		for range n {
			sb.WriteString(rapid.SampledFrom(fragments).Draw(t, "fragment"))
		}
		input := sb.String()

		first := Split(input)
		second := Split(input)
		require.Equal(t, first, second)

		for _, rec := range first {
			require.NotEmpty(t, rec.Key)
			require.GreaterOrEqual(t, rec.Additions, 0)
			require.GreaterOrEqual(t, rec.Deletions, 0)
		}
	})
}
