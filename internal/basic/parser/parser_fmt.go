package parser

import (
	"fmt"
	"strings"
)

func (p ParseError) String() string {
	to := "\"\""
	err := "\"\""

	if p.Err != nil {
		err = p.Err.Error()
		err = strings.ReplaceAll(err, "\"", "'")
	}
	if p.Token != nil {
		to = fmt.Sprint(*p.Token)
	}

	return fmt.Sprintf(`{"Err": "%s", "Range": %s, "Token": %s}`, err, p.Range, to)
}

// Error lets a diagnostic travel as a plain error.
func (p ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", p.Range.Start.Line+1, p.Range.Start.Character+1, p.GetError())
}

func (p ParseError) Unwrap() error {
	return p.Err
}
