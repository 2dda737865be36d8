package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/unialias/pkg/dataset"
	"github.com/bastiangx/unialias/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	matchedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	recentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	charStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Highlight marks the first matched bytes of alias.
func Highlight(alias string, matched int) string {
	matched = min(matched, len(alias))
	return matchedStyle.Render(alias[:matched]) + alias[matched:]
}

func formatSuggestions(prefix string, suggestions []suggest.Suggestion) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d aliases for '%s':\n", len(suggestions), prefix)
	for i, s := range suggestions {
		// pad on the raw alias so styling does not break the columns
		pad := strings.Repeat(" ", max(0, 24-len(s.Alias)))
		line := fmt.Sprintf("%2d. %s%s %s", i+1, Highlight(s.Alias, s.Matched), pad, charStyle.Render(string(s.Char)))
		if s.Recent {
			line += " " + recentStyle.Render("recent")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func formatReport(r dataset.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "loaded %s aliases from %d datasets in %s\n",
		humanize.Comma(int64(r.Aliases)), len(r.Files), r.Elapsed.Round(time.Microsecond))
	for _, f := range r.Files {
		fmt.Fprintf(&sb, "  %-24s %s records", f.Name, humanize.Comma(int64(f.Records)))
		if f.Skipped > 0 {
			fmt.Fprintf(&sb, ", %d duplicates skipped", f.Skipped)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatStats(stats map[string]int) string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-18s %s\n", k, humanize.Comma(int64(stats[k])))
	}
	return sb.String()
}
