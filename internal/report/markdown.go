package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

const terminalWidth = 120

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// WriteMarkdown writes t as a GitHub flavored markdown table, followed by the
// notes as a list.
func WriteMarkdown(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	align := make([]string, 0, len(t.Columns)+1)
	header = append(header, "Asset")
	align = append(align, ":---")
	for _, c := range t.Columns {
		header = append(header, cellEscaper.Replace(c.Title))
		align = append(align, "---:")
	}
	writeMarkdownRow(bw, header)
	writeMarkdownRow(bw, align)

	for _, r := range t.Rows {
		fields := make([]string, 0, len(r.Cells)+1)
		label := cellEscaper.Replace(r.Label)
		if r.Total {
			label = "**" + label + "**"
		}
		fields = append(fields, label)
		for _, c := range r.Cells {
			fields = append(fields, cellEscaper.Replace(c.Text))
		}
		writeMarkdownRow(bw, fields)
	}

	if len(t.Notes) > 0 {
		bw.WriteString("\n")
		for _, n := range t.Notes {
			fmt.Fprintf(bw, "- %s\n", n)
		}
	}
	return bw.Flush()
}

func writeMarkdownRow(w *bufio.Writer, fields []string) {
	w.WriteString("| ")
	w.WriteString(strings.Join(fields, " | "))
	w.WriteString(" |\n")
}

// RenderTerminal renders t for an ANSI terminal, picking a light or dark
// style from the terminal background.
func RenderTerminal(t Table) (string, error) {
	var sb strings.Builder
	if err := WriteMarkdown(&sb, t); err != nil {
		return "", err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth),
	)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(sb.String())
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return out, nil
}
