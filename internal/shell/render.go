package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
)

// styles holds the shell's lipgloss styles bound to one output.
type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	errText lipgloss.Style
	ok      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		errText: r.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
	}
}

// Snippet truncates content to limit runes, appending "..." when cut.
func Snippet(content string, limit int) string {
	content = strings.Join(strings.Fields(content), " ")
	if limit <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}

// WriteResults prints one block per hit: id, title, category and snippet.
func WriteResults(w io.Writer, heading string, results []result.Result, snippetLen int) {
	st := newStyles(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.header.Render("--- "+heading+" ---"))
	if len(results) == 0 {
		fmt.Fprintln(w, st.muted.Render("No results found."))
		return
	}
	for i := range results {
		d := results[i].Document()
		fmt.Fprintf(w, "%s %s\n", st.label.Render("ID:"), d.ID())
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Title:"), d.Title())
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Category:"), d.Category())
		fmt.Fprintf(w, "%s %s\n", st.label.Render("Content:"), Snippet(d.Content(), snippetLen))
		fmt.Fprintln(w, st.muted.Render("---"))
	}
	fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("%d result(s)", len(results))))
}
