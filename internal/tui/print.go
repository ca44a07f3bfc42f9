package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	ErrTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"})
	WarnTextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"})
)

// Out and Diag receive everything printed outside the program: results on Out,
// warnings and errors on Diag so they never mix with an answer being piped.
var (
	Out  io.Writer = os.Stdout
	Diag io.Writer = os.Stderr
)

func printLine(w io.Writer, style lipgloss.Style, prefix string, msg string, ext []any) {
	fmt.Fprintln(w, style.Render(prefix+fmt.Sprintf(msg, ext...)))
}

func Print(msg string, ext ...any) {
	printLine(Out, TextStyle, "", msg, ext)
}

// PrintWarn reports something that was skipped or defaulted.
func PrintWarn(msg string, ext ...any) {
	printLine(Diag, WarnTextStyle, "warning: ", msg, ext)
}

func PrintErr(msg string, ext ...any) {
	printLine(Diag, ErrTextStyle, "error: ", msg, ext)
}
