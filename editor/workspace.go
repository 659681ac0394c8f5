package editor

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// vimrc levels the playing field: every solver edits with the same settings.
//
//go:embed vimrc
var vimrc []byte

// Workspace is a temporary directory for one exercise.
type Workspace struct {
	dir string
}

// NewWorkspace creates a temporary directory holding the shared vimrc.
func NewWorkspace() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "vim-fmi-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	w := &Workspace{dir: dir}
	if err := os.WriteFile(w.VimrcPath(), vimrc, 0o644); err != nil {
		w.Close()
		return nil, fmt.Errorf("write vimrc: %w", err)
	}
	return w, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// VimrcPath returns the path of the vimrc in the workspace.
func (w *Workspace) VimrcPath() string {
	return filepath.Join(w.dir, "vimrc")
}

// Path returns the path of a file in the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// CreateFile writes contents to name in the workspace and returns its path.
func (w *Workspace) CreateFile(name, contents string) (string, error) {
	path := w.Path(name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	return path, nil
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}
