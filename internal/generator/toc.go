package generator

import (
	"strings"

	"headerdoc/internal/extractor"
)

// TOCEntry is one line of the navigation list.
type TOCEntry struct {
	Title  string
	Anchor string
	Level  int
	// Depth is the list nesting: minors sit under the preceding major, and
	// minors before the first major stay at the top level.
	Depth int
}

// BuildTOC converts headings to navigation entries with page-unique anchors.
// reserved names headings rendered before the list, such as the page title,
// which claim their anchors first.
func BuildTOC(headings []extractor.Heading, reserved ...string) []TOCEntry {
	anchors := extractor.AnchorSet{}
	for _, r := range reserved {
		anchors.Next(r)
	}

	out := make([]TOCEntry, 0, len(headings))
	underMajor := false
	for _, h := range headings {
		depth := 0
		if h.Level <= 1 {
			underMajor = true
		} else if underMajor {
			depth = 1
		}
		out = append(out, TOCEntry{Title: h.Text, Anchor: anchors.Next(h.Text), Level: h.Level, Depth: depth})
	}
	return out
}

// RenderTOC renders the entries of BuildTOC as a nested Markdown list.
func RenderTOC(headings []extractor.Heading, reserved ...string) string {
	entries := BuildTOC(headings, reserved...)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, strings.Repeat("  ", e.Depth)+"- ["+e.Title+"](#"+e.Anchor+")")
	}
	return strings.Join(lines, "\n")
}
