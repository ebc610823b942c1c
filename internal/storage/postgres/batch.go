package postgres

import (
	"strconv"
	"strings"
)

// valuesList renders "($1, $2), ($3, $4)" for rows tuples of cols
// placeholders each.
func valuesList(rows, cols int) string {
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(r*cols + c + 1))
		}
		sb.WriteString(")")
	}
	return sb.String()
}
