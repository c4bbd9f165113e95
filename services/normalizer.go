package services

import (
	"regexp"
	"strings"
)

var (
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
)

// NormalizeText collapses redundant whitespace in extracted text.
// Runs of three or more newlines become a paragraph break, runs of spaces
// and tabs become a single space, and the result is trimmed.
// NormalizeText(NormalizeText(s)) == NormalizeText(s) for every s.
func NormalizeText(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
