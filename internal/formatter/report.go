package formatter

import (
	"fmt"
	"strings"
	"time"
)

// Field is one line of a report summary.
type Field struct {
	Name  string
	Value string
}

// Report is a run report: a titled summary followed by one table.
type Report struct {
	GeneratedAt time.Time
	Title       string
	Summary     []Field
	// Columns and Rows form the detail table; it is skipped when Rows is empty.
	Columns []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Render returns the report as markdown.
func Render(r Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title)

	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "Generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	}

	if len(r.Summary) > 0 {
		sb.WriteString("| Item | Value |\n| --- | --- |\n")

		for _, f := range r.Summary {
			fmt.Fprintf(&sb, "| %s | %s |\n", EscapeCell(f.Name), EscapeCell(f.Value))
		}

		sb.WriteString("\n")
	}

	switch {
	case len(r.Rows) > 0:
		writeRow(&sb, r.Columns)

		seps := make([]string, len(r.Columns))
		for i := range seps {
			seps[i] = "---"
		}

		writeRow(&sb, seps)

		for _, row := range r.Rows {
			writeRow(&sb, row)
		}
	case r.Empty != "":
		sb.WriteString(r.Empty + "\n")
	}

	return FormatMarkdown(sb.String())
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")

	for _, c := range cells {
		sb.WriteString(" " + EscapeCell(c) + " |")
	}

	sb.WriteString("\n")
}
