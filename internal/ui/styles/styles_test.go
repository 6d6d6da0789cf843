package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForceMode_Dark(t *testing.T) {
	origAdd := DiffAdditionColor
	origDel := DiffDeletionColor
	defer func() {
		DiffAdditionColor = origAdd
		DiffDeletionColor = origDel
	}()

	ForceMode("dark")
	require.Equal(t, DiffAdditionColor.Dark, DiffAdditionColor.Light)
	require.Equal(t, DiffDeletionColor.Dark, DiffDeletionColor.Light)
}

func TestForceMode_Light(t *testing.T) {
	orig := TextPrimaryColor
	defer func() { TextPrimaryColor = orig }()

	ForceMode("light")
	require.Equal(t, TextPrimaryColor.Light, TextPrimaryColor.Dark)
}

func TestForceMode_UnknownIsNoop(t *testing.T) {
	before := DiffHunkColor
	ForceMode("solarized")
	require.Equal(t, before, DiffHunkColor)
}
