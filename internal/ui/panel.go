package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barFull     = "█"
	barEmpty    = "░"
	minBarWidth = 5
)

// ProgressBar draws done out of total as a bar of width cells followed by the
// percentage. done is clamped to [0, total].
func ProgressBar(done, total, width int) string {
	width = max(width, minBarWidth)
	done = min(max(done, 0), total)
	pct, cells := 0, 0
	if total > 0 {
		pct = done * 100 / total
		cells = done * width / total
	}
	return fmt.Sprintf("%s%s %3d%%", strings.Repeat(barFull, cells), strings.Repeat(barEmpty, width-cells), pct)
}

// Frame wraps content in the current theme's border.
func Frame(content string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(content)
}

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, Frame(strings.Join(lines, "\n")))
}
