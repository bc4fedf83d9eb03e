package search

import "strings"

// row is one line of an aligned text block. Rows without a label (headers,
// blank spacers, notes) pass through untouched; labelled rows are right
// justified to the longest label in the block.
type row struct {
	label string
	value string
}

func formatRows(rows []row) string {
	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if r.label == "" {
			b.WriteString(r.value)
			continue
		}
		for pad := width - len(r.label); pad > 0; pad-- {
			b.WriteByte(' ')
		}
		b.WriteString(r.label)
		b.WriteString(r.value)
	}
	return b.String()
}
