package generator

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"headerdoc/internal/extractor"
)

// OutlineHeading is a heading found in a rendered Markdown document.
type OutlineHeading struct {
	Level  int
	Title  string
	Anchor string
}

// Outline is the heading structure and intra-document links of a Markdown
// document.
type Outline struct {
	Headings []OutlineHeading
	// Fragments holds the targets of "#anchor" links in document order.
	Fragments []string
}

// ParseOutline walks the goldmark AST of content.
func ParseOutline(content []byte) *Outline {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	out := &Outline{}
	anchors := extractor.AnchorSet{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			title := nodeText(v, content)
			out.Headings = append(out.Headings, OutlineHeading{
				Level:  v.Level,
				Title:  title,
				Anchor: anchors.Next(title),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			dest := string(v.Destination)
			if strings.HasPrefix(dest, "#") {
				out.Fragments = append(out.Fragments, strings.TrimPrefix(dest, "#"))
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// BrokenAnchors returns fragment links that match no heading anchor.
func (o *Outline) BrokenAnchors() []string {
	known := make(map[string]bool, len(o.Headings))
	for _, h := range o.Headings {
		known[h.Anchor] = true
	}
	var broken []string
	for _, f := range o.Fragments {
		if !known[f] {
			broken = append(broken, f)
		}
	}
	return broken
}

func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
