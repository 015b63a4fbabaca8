package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelString frames inner with the theme border.
func PanelString(inner string) string {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	return border.Render(inner)
}

// Panel prints lines inside a framed box.
func Panel(lines []string) {
	fmt.Println(PanelString(strings.Join(lines, "\n")))
}

// OK reports success on stdout.
func OK(msg string) { fmt.Println(Current().Success.Render(Current().SymOK + " " + msg)) }

// Fail reports an error on stderr.
func Fail(msg string) { Failf(os.Stderr, msg) }

func Failf(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render(Current().SymFail+" "+msg))
}

// Hint prints a muted line on stderr.
func Hint(msg string) { fmt.Fprintln(os.Stderr, Current().Muted.Render(msg)) }

// Truncate shortens s to max runes, adding an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
