package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_ReviewBindings(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{
			name:     "ToggleViewed uses v",
			binding:  k.ToggleViewed,
			expected: []string{"v"},
		},
		{
			name:     "MarkAllViewed uses V",
			binding:  k.MarkAllViewed,
			expected: []string{"V"},
		},
		{
			name:     "Undo uses u",
			binding:  k.Undo,
			expected: []string{"u"},
		},
		{
			name:     "NextUnviewed uses n",
			binding:  k.NextUnviewed,
			expected: []string{"n"},
		},
		{
			name:     "ToggleExpand uses enter and space",
			binding:  k.ToggleExpand,
			expected: []string{"enter", " "},
		},
		{
			name:     "Quit uses q and ctrl+c",
			binding:  k.Quit,
			expected: []string{"q", "ctrl+c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestDefaultKeyMap_NoConflicts(t *testing.T) {
	k := DefaultKeyMap()

	seen := map[string]string{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			desc := b.Help().Desc
			for _, kk := range b.Keys() {
				prev, dup := seen[kk]
				require.False(t, dup, "key %q bound to both %q and %q", kk, prev, desc)
				seen[kk] = desc
			}
		}
	}
}

func TestDefaultKeyMap_HelpText(t *testing.T) {
	k := DefaultKeyMap()

	for _, group := range k.FullHelp() {
		for _, b := range group {
			help := b.Help()
			require.NotEmpty(t, help.Key, "binding missing help key")
			require.NotEmpty(t, help.Desc, "binding %q missing description", help.Key)
		}
	}
}

func TestShortHelp_Subset(t *testing.T) {
	k := DefaultKeyMap()
	require.NotEmpty(t, k.ShortHelp())
	require.LessOrEqual(t, len(k.ShortHelp()), 6, "short help should stay short")
}
