// Package editor runs Vim on an exercise with keystroke logging enabled.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

var (
	// ErrNotFound means no usable editor is installed.
	ErrNotFound = errors.New("none of mvim, gvim or vim was found, check that one of them is in $PATH")

	// ErrEditorFailed means the editor exited unsuccessfully.
	ErrEditorFailed = errors.New("editor exited with a failure status")
)

// ExecutableEnv names an editor to use instead of searching $PATH.
const ExecutableEnv = "VIMFMI_EXECUTABLE"

var candidates = []string{"mvim", "gvim", "vim"}

// Find picks the editor executable: $VIMFMI_EXECUTABLE if set, otherwise the
// first of mvim, gvim and vim that lookPath resolves. A nil lookPath means
// exec.LookPath.
func Find(lookPath func(string) (string, error)) (string, error) {
	if custom := os.Getenv(ExecutableEnv); custom != "" {
		return custom, nil
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range candidates {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNotFound
}

// Result is what an editing session produced.
type Result struct {
	Output string // the edited file
	Keylog []byte // raw keystrokes as written by -W
}

// Vim runs one editor executable.
type Vim struct {
	Executable string
	VimrcPath  string
	Logger     *slog.Logger

	// Stdio of the editor. Nil means the corresponding os file.
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Args returns the editor command line for editing input while logging
// keystrokes to log.
func (v *Vim) Args(input, log string) []string {
	var args []string

	// gvim forks and returns immediately without --nofork; -Z is
	// restricted mode. Neovim supports neither.
	if filepath.Base(v.Executable) != "nvim" {
		args = append(args, "--nofork", "-Z")
	}

	return append(args,
		"-n",         // no swap file
		"--noplugin", // no plugins, keep it fair
		"-i", "NONE", // no viminfo, so no saved macros
		"+0",         // start on the first line
		"-U", "NONE", // no gvimrc
		"-u", v.VimrcPath,
		"-W", log, // keylog, overwritten if it exists
		input,
	)
}

// Run edits input, logging keystrokes to log, and returns the edited text
// and the raw keylog.
func (v *Vim) Run(ctx context.Context, input, log string) (Result, error) {
	cmd := exec.CommandContext(ctx, v.Executable, v.Args(input, log)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if v.Stdin != nil {
		cmd.Stdin = v.Stdin
	}
	if v.Stdout != nil {
		cmd.Stdout = v.Stdout
	}
	if v.Stderr != nil {
		cmd.Stderr = v.Stderr
	}

	v.logger().Debug("starting editor", "executable", v.Executable, "args", cmd.Args[1:])

	restore := saveTerminal(cmd.Stdin, v.logger())
	err := cmd.Run()
	restore()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("%w: %s", ErrEditorFailed, exitErr)
		}
		return Result{}, fmt.Errorf("run %s: %w", v.Executable, err)
	}

	output, err := os.ReadFile(input)
	if err != nil {
		return Result{}, fmt.Errorf("read edited file: %w", err)
	}
	keylog, err := os.ReadFile(log)
	if err != nil {
		return Result{}, fmt.Errorf("read keylog: %w", err)
	}

	v.logger().Debug("editor finished", "keylog_bytes", len(keylog))
	return Result{Output: string(output), Keylog: keylog}, nil
}

func (v *Vim) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return v.Logger
}

// saveTerminal records the terminal state of r, if r is a terminal, and
// returns a function restoring it. Vim may exit without resetting modes it
// changed.
func saveTerminal(r io.Reader, logger *slog.Logger) func() {
	f, ok := r.(interface{ Fd() uintptr })
	if !ok {
		return func() {}
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	state, err := term.GetState(fd)
	if err != nil {
		logger.Debug("could not save terminal state", "error", err)
		return func() {}
	}
	return func() {
		if err := term.Restore(fd, state); err != nil {
			logger.Debug("could not restore terminal state", "error", err)
		}
	}
}

// Matches reports whether the edited text equals the expected text, ignoring
// line ending style and trailing whitespace at the end of the file.
func Matches(expected, actual string) bool {
	return normalize(expected) == normalize(actual)
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, " \t\n")
}
