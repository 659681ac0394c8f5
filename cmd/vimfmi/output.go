package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")
)

var styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Keys    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	Error:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Keys: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Success.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styles.Warning.Render("! "+fmt.Sprintf(format, args...)))
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, styles.Error.Render("✗ "+err.Error()))
}

// printTranscript shows the decoded keystrokes of a session.
func printTranscript(w io.Writer, transcript string, count int) {
	fmt.Fprintln(w, styles.Title.Render("Keystrokes"))
	if transcript == "" {
		fmt.Fprintln(w, styles.Muted.Render("(none)"))
	} else {
		fmt.Fprintln(w, styles.Keys.Render(transcript))
	}
	fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("%d keystrokes", count)))
}
