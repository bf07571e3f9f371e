package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"headerdoc/internal/extractor"
)

// MarkdownRenderer produces the reference document.
type MarkdownRenderer struct {
	opts RenderOptions
}

func NewMarkdownRenderer(opts RenderOptions) *MarkdownRenderer {
	return &MarkdownRenderer{opts: opts}
}

// Render writes the title, the optional table of contents and every item of
// doc in source order.
func (r *MarkdownRenderer) Render(doc *extractor.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	title := strings.TrimSpace(r.opts.Title)
	if title == "" {
		title = DefaultTitle(doc.Path)
	}

	blocks := []string{"# " + title}
	if r.opts.TOC && len(doc.Headings) > 0 {
		blocks = append(blocks, RenderTOC(doc.Headings, title))
	}
	for _, it := range doc.Items {
		switch {
		case it.Heading != nil:
			blocks = append(blocks, markdownHeading(*it.Heading))
		case it.Entry != nil:
			blocks = append(blocks, r.renderEntry(doc.Path, it.Entry))
		}
	}
	return strings.Join(blocks, "\n\n") + "\n", nil
}

func markdownHeading(h extractor.Heading) string {
	// Level 1 of the document belongs to the title.
	return strings.Repeat("#", h.Level+1) + " " + h.Text
}

func (r *MarkdownRenderer) renderEntry(path string, e *extractor.Entry) string {
	var sb strings.Builder
	sb.WriteString("```c\n")
	sb.WriteString(e.Declaration)
	sb.WriteString("\n```")
	if e.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Description)
	}
	sb.WriteString("\n\n")
	sb.WriteString(r.sourceLink(path, e))
	return sb.String()
}

// sourceLink renders "[file:line](base/file#Lline)" or, without a line, the
// static "[file](base/file)" placeholder.
func (r *MarkdownRenderer) sourceLink(path string, e *extractor.Entry) string {
	target := r.opts.LinkBase + filepath.ToSlash(path)
	name := filepath.Base(path)
	if !r.opts.Links || e.Definition <= 0 {
		return fmt.Sprintf("[%s](%s)", name, target)
	}
	return fmt.Sprintf("[%s:%d](%s#L%d)", name, e.Definition, target, e.Definition)
}
