package extractor

import (
	"strconv"
	"strings"
)

// NormalizeDeclaration trims surrounding whitespace and every trailing
// statement terminator. Applying it twice yields the same string.
func NormalizeDeclaration(line string) string {
	s := strings.TrimSpace(line)
	for {
		next := strings.TrimSpace(strings.TrimRight(s, ";"))
		if next == s {
			return s
		}
		s = next
	}
}

// StatementForm returns the declaration terminated by exactly one ';'.
func StatementForm(line string) string {
	s := NormalizeDeclaration(line)
	if s == "" {
		return s
	}
	return s + ";"
}

// JoinDescription collapses comment lines into a single line of text.
func JoinDescription(doc []string) string {
	parts := make([]string, 0, len(doc))
	for _, line := range doc {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// Anchor derives a Markdown heading anchor: lower-cased words joined by
// hyphens. Punctuation is left as is.
func Anchor(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "-")
}

// AnchorSet hands out page-unique anchors the way Markdown renderers do:
// a repeated slug gets "-1", then "-2" and so on.
type AnchorSet map[string]int

// Next returns the anchor for the next heading with the given text.
func (s AnchorSet) Next(text string) string {
	base := Anchor(text)
	n, seen := s[base]
	s[base] = n + 1
	if !seen {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
