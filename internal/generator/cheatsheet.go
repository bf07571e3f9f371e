package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"headerdoc/internal/extractor"
)

// CheatsheetRenderer produces a compact C source listing: one statement per
// entry with its description as a trailing comment.
type CheatsheetRenderer struct {
	opts RenderOptions
}

func NewCheatsheetRenderer(opts RenderOptions) *CheatsheetRenderer {
	if opts.PadWidth <= 0 {
		opts.PadWidth = DefaultPadWidth
	}
	return &CheatsheetRenderer{opts: opts}
}

func (r *CheatsheetRenderer) Render(doc *extractor.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	title := strings.TrimSpace(r.opts.Title)
	if title == "" {
		title = DefaultTitle(doc.Path)
	}

	var sb strings.Builder
	sb.WriteString("// " + title + "\n")
	for _, it := range doc.Items {
		switch {
		case it.Heading != nil:
			sb.WriteString("\n// " + strings.Repeat("#", it.Heading.Level) + " " + it.Heading.Text + "\n")
		case it.Entry != nil:
			sb.WriteString(CheatsheetLine(it.Entry.Statement, it.Entry.Description, r.opts.PadWidth))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// CheatsheetLine pads stmt to width so the comment starts at a fixed column.
// A statement that does not fit is followed by exactly one space.
func CheatsheetLine(stmt, description string, width int) string {
	if description == "" {
		return stmt
	}
	n := utf8.RuneCountInString(stmt)
	pad := 1
	if n < width {
		pad = width - n
	}
	return stmt + strings.Repeat(" ", pad) + "// " + description
}
