package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// GROVE_COLORS defines the color palette for branch visualization
var GROVE_COLORS = [][]int{
	{76, 203, 241},  // Light blue
	{77, 202, 125},  // Green
	{110, 173, 38},  // Dark green
	{245, 200, 0},   // Yellow
	{248, 144, 72},  // Orange
	{244, 98, 81},   // Red
	{235, 130, 188}, // Pink
	{159, 131, 228}, // Purple
	{80, 132, 243},  // Blue
}

// ColorForDepth returns a styled string colored by tree depth.
func ColorForDepth(text string, depth int) string {
	if len(GROVE_COLORS) == 0 {
		return text
	}

	color := GROVE_COLORS[depth%len(GROVE_COLORS)]
	hexColor := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", color[0], color[1], color[2]))

	return lipgloss.NewStyle().Foreground(hexColor).Render(text)
}

// Styles for severity and badge rendering.
var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f46251")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c800"))
)

// StyleError renders text in the error style.
func StyleError(text string) string { return errorStyle.Render(text) }

// StyleWarn renders text in the warning style.
func StyleWarn(text string) string { return warnStyle.Render(text) }

// IsTerminal reports whether stdout is a terminal, used to decide whether
// colored or TUI output makes sense.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
