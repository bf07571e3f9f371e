package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"headerdoc/internal/extractor"
)

// Format selects the output shape.
type Format string

const (
	FormatMarkdown   Format = "markdown"
	FormatCheatsheet Format = "cheatsheet"
)

// Default output files written to the working directory.
const (
	DefaultMarkdownOutput   = "DOCS.md"
	DefaultCheatsheetOutput = "CHEATSHEET.h"
	DefaultPadWidth         = 48
)

// ParseFormat accepts "markdown" (or "md"), "cheatsheet" (or "cheat").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "cheatsheet", "cheat":
		return FormatCheatsheet, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// DefaultOutput returns the fixed output path for a format.
func (f Format) DefaultOutput() string {
	if f == FormatCheatsheet {
		return DefaultCheatsheetOutput
	}
	return DefaultMarkdownOutput
}

// RenderOptions control the shape of a rendered document.
type RenderOptions struct {
	Title string
	TOC   bool
	// Links renders resolved definition lines as source links. When false a
	// static link to the file is rendered instead.
	Links    bool
	LinkBase string
	PadWidth int
}

// Renderer turns an extracted document into output text.
type Renderer interface {
	Render(doc *extractor.Document) (string, error)
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format, opts RenderOptions) (Renderer, error) {
	switch format {
	case FormatMarkdown, "":
		return NewMarkdownRenderer(opts), nil
	case FormatCheatsheet:
		return NewCheatsheetRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// DefaultTitle derives "<Stem> documentation" from the header path.
func DefaultTitle(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if stem == "" || stem == "." {
		return "Documentation"
	}
	r := []rune(stem)
	r[0] = unicode.ToUpper(r[0])
	return string(r) + " documentation"
}
