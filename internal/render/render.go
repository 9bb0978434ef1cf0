// Package render turns an evaluated grid of cell text into the aligned,
// pipe-delimited text the CLI prints, per spec.md §4.6/§6: a leading blank
// line, each row as "<result><pad> | <result><pad> | ... | <result>" with
// no trailing separator after the last column, and a trailing blank line.
package render

import (
	"strings"
)

// Grid renders a row-major grid of already-evaluated cell text. Column
// widths are computed from the widest rendered value in that column
// across every row, so every column is left-aligned independently.
func Grid(grid [][]string) string {
	if len(grid) == 0 {
		return "\n\n"
	}

	numCols := len(grid[0])
	widths := make([]int, numCols)
	for _, row := range grid {
		for col, text := range row {
			if len(text) > widths[col] {
				widths[col] = len(text)
			}
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, row := range grid {
		for col, text := range row {
			if col == len(row)-1 {
				b.WriteString(text)
				continue
			}
			b.WriteString(text)
			b.WriteString(strings.Repeat(" ", widths[col]-len(text)))
			b.WriteString(" | ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
