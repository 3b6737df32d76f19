package lexer

import (
	"fmt"
	"strings"
)

func (p Position) String() string {
	return fmt.Sprintf("{ \"Line\": %d, \"Character\": %d }", p.Line, p.Character)
}

func (r Range) String() string {
	return fmt.Sprintf("{ \"Start\": %s, \"End\": %s }", r.Start, r.End)
}

func (t Token) String() string {
	return fmt.Sprintf(
		"{ \"ID\": \"%s\", \"Range\": %s, \"Literal\": %q }",
		t.ID,
		t.Range,
		t.Literal,
	)
}

// PrettyFormatter converts an array of Stringer elements to a formatted string.
func PrettyFormatter[T fmt.Stringer](arr []T) string {
	if len(arr) == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteString("[")

	for i, el := range arr {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(el.String())
	}

	sb.WriteString("]")

	return sb.String()
}
