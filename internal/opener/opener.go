// Package opener sends fire-and-forget "open this file" actions to the
// host system: editor, file manager, and clipboard.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zjrosen/diffscope/internal/log"
)

// Opener defines the external-open actions available for a file.
type Opener interface {
	// OpenInEditor opens path in the user's editor, optionally at line.
	OpenInEditor(path string, line int) error
	// Reveal shows path in the system file manager.
	Reveal(path string) error
	// CopyPath puts the absolute path on the system clipboard.
	CopyPath(path string) error
}

// SystemOpener implements Opener by shelling out to the host.
type SystemOpener struct {
	// Editor overrides $EDITOR when set (config editor key).
	Editor string
}

var _ Opener = (*SystemOpener)(nil)

// OpenInEditor launches the configured editor on path. Editors with
// known +line syntax get the cursor positioned; others just get the
// file.
func (o *SystemOpener) OpenInEditor(path string, line int) error {
	editor := o.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	args := editorArgs(editor, path, line)
	//nolint:gosec // G204: editor comes from user config or $EDITOR
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Debug(log.CatOpener, "opening in editor", "editor", args[0], "path", path, "line", line)
	return cmd.Run()
}

// editorArgs builds the command line for the given editor, path, and
// line number.
func editorArgs(editor, path string, line int) []string {
	parts := strings.Fields(editor)
	name := filepath.Base(parts[0])

	if line > 0 {
		switch {
		case name == "code" || name == "code-insiders" || name == "cursor":
			return append(parts, "--goto", fmt.Sprintf("%s:%d", path, line))
		case name == "vi" || name == "vim" || name == "nvim" ||
			name == "emacs" || name == "nano" || name == "hx" ||
			name == "kak" || name == "micro":
			return append(parts, fmt.Sprintf("+%d", line), path)
		case name == "subl" || name == "zed":
			return append(parts, fmt.Sprintf("%s:%d", path, line))
		}
	}
	return append(parts, path)
}

// Reveal shows path in the platform file manager.
func (o *SystemOpener) Reveal(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-R", path)
	case "windows":
		cmd = exec.Command("explorer", "/select,", path)
	default:
		// No cross-desktop way to select a file; open its directory.
		cmd = exec.Command("xdg-open", filepath.Dir(path))
	}
	log.Debug(log.CatOpener, "revealing in file manager", "path", path)
	return cmd.Start()
}

// CopyPath copies the absolute path to the system clipboard.
func (o *SystemOpener) CopyPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard")
	}

	pipe, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	if _, err := pipe.Write([]byte(abs)); err != nil {
		return err
	}

	if err := pipe.Close(); err != nil {
		return err
	}

	return cmd.Wait()
}

// MockOpener records calls for tests.
type MockOpener struct {
	Opened   []string
	Revealed []string
	Copied   []string
	Err      error
}

var _ Opener = (*MockOpener)(nil)

func (m *MockOpener) OpenInEditor(path string, line int) error {
	m.Opened = append(m.Opened, fmt.Sprintf("%s:%d", path, line))
	return m.Err
}

func (m *MockOpener) Reveal(path string) error {
	m.Revealed = append(m.Revealed, path)
	return m.Err
}

func (m *MockOpener) CopyPath(path string) error {
	m.Copied = append(m.Copied, path)
	return m.Err
}
