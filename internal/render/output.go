// Package render formats session state for the terminal.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/goturtle/internal/interp"
	"github.com/itsmostafa/goturtle/internal/session"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(0, 1)

	// headerBoxStyle for the turtle state header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(0, 1)

	// nameStyle for variable names
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

// FormatHeader renders the turtle summary box.
func FormatHeader(w io.Writer, snap *session.Snapshot) {
	fmt.Fprintln(w, headerBoxStyle.Render(stateContent(snap)))
}

func stateContent(snap *session.Snapshot) string {
	t := snap.Turtle

	pen := successStyle.Render("down")
	if t.PenUp {
		pen = dimStyle.Render("up")
	}

	return fmt.Sprintf("%s %s  %s %.2f°\n%s %s  %s %s  %s %g\n%s %s  %s %s",
		dimStyle.Render("Position:"), t.Position,
		dimStyle.Render("Heading:"), snap.Heading,
		dimStyle.Render("Pen:"), pen,
		dimStyle.Render("Color:"), t.PenColor.Hex(),
		dimStyle.Render("Width:"), t.PenWidth,
		dimStyle.Render("Segments:"), formatNumber(t.Segments()),
		dimStyle.Render("Points:"), formatNumber(t.Points()),
	)
}

// FormatHistory writes the diagnostic log, one numbered entry per line.
// Multi-line entries are indented under their number.
func FormatHistory(w io.Writer, lines []string) {
	if len(lines) == 0 {
		return
	}
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		num := dimStyle.Render(fmt.Sprintf("%*d", width, i+1))
		indent := "\n" + strings.Repeat(" ", width+1)
		fmt.Fprintf(w, "%s %s\n", num, strings.ReplaceAll(line, "\n", indent))
	}
}

// FormatLines writes log entries without numbering, as the REPL echoes them.
func FormatLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// FormatVariables writes the variable store sorted by name.
func FormatVariables(w io.Writer, vars map[string]interp.Variable) {
	if len(vars) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no variables"))
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		v := vars[name]
		line := fmt.Sprintf("%s = %s", nameStyle.Render(name), v.Value)
		if v.Raw != v.Value.String() {
			line += dimStyle.Render(fmt.Sprintf("  (%s)", v.Raw))
		}
		if !v.Writable {
			line += dimStyle.Render("  [loop]")
		}
		fmt.Fprintln(w, line)
	}
}

// FormatRunError renders a run that was cut short.
func FormatRunError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("aborted:"), err)
}

// FormatSessionSummary renders the summary box for one script of a batch.
func FormatSessionSummary(w io.Writer, name string, snap *session.Snapshot, runErr error) {
	status := successStyle.Render("OK")
	if runErr != nil {
		status = errorStyle.Render("ERROR")
	}

	lines := []string{
		titleStyle.Render(name) + "  " + status,
		stateContent(snap),
		fmt.Sprintf("%s %d", dimStyle.Render("Log entries:"), len(snap.Turtle.History)),
	}
	if runErr != nil {
		lines = append(lines, errorStyle.Render(runErr.Error()))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// FormatBatchTotals renders the final tally of a batch run.
func FormatBatchTotals(w io.Writer, total, failed int) {
	msg := fmt.Sprintf("%d script(s), %d failed", total, failed)
	if failed > 0 {
		fmt.Fprintln(w, errorStyle.Render(msg))
		return
	}
	fmt.Fprintln(w, successStyle.Render(msg))
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
