package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/imyousuf/srcmetrics/internal/lang"
	"github.com/imyousuf/srcmetrics/internal/scanner"
)

// Style definitions for scan summaries. In non-TTY environments the styles
// degrade to plain text, so the lines stay grep-able.
var (
	countStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	langStyle = lipgloss.NewStyle().Faint(true)
)

// PrintCollection renders the post-collection summary: total file count and a
// per-language breakdown in canonical tag order, languages with no files
// omitted.
func PrintCollection(out io.Writer, col *scanner.Collection) {
	count := countStyle.Render(fmt.Sprintf("%d", col.Total()))
	fmt.Fprintf(out, "📊 Found %s source files:\n", count)
	for _, tag := range lang.Tags() {
		if n := col.Counts[tag]; n > 0 {
			fmt.Fprintf(out, "  %s: %d files\n", langStyle.Render(string(tag)), n)
		}
	}
}

// PrintCompletion renders the closing line after the report is written.
func PrintCompletion(out io.Writer, outPath string) {
	fmt.Fprintf(out, "\n✅ Analysis complete. Results saved to %s\n", outPath)
}
