package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInputNotFound is returned when the header cannot be read.
var ErrInputNotFound = errors.New("file not found")

// Options configures an extraction pass.
type Options struct {
	Grammar Grammar
	// ResolveLines enables definition line lookups for every entry.
	ResolveLines bool
	Policy       Policy
	// Classifier is optional; without it entries get a lexical symbol guess.
	Classifier *SymbolClassifier
}

// Extractor turns header text into a Document.
type Extractor struct {
	opts Options
}

// NewExtractor creates an extractor, filling unset grammar prefixes.
func NewExtractor(opts Options) *Extractor {
	opts.Grammar = opts.Grammar.WithDefaults()
	if opts.Policy == "" {
		opts.Policy = PolicyLenient
	}
	return &Extractor{opts: opts}
}

// ExtractFromFile reads path once and extracts its documentation.
func (e *Extractor) ExtractFromFile(ctx context.Context, path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
	}
	return e.Extract(ctx, path, string(content))
}

// Extract runs the comment state machine over content. The full line slice
// is kept for definition lookups independent of the forward pass.
func (e *Extractor) Extract(ctx context.Context, path, content string) (*Document, error) {
	lines := SplitLines(content)
	resolver := NewResolver(lines, e.opts.Policy)
	doc := &Document{Path: path, Items: []Item{}, Headings: []Heading{}}

	g := e.opts.Grammar
	var state State
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.Classify(line) == LineIgnore {
			doc.Ignored++
		}

		var ev Event
		state, ev = g.Step(state, line)
		switch ev.Kind {
		case EventStop:
			if ev.Doc != nil {
				doc.Dropped++
			}
			doc.StoppedAt = i + 1
			return doc, nil
		case EventHeading:
			if ev.Doc != nil {
				doc.Dropped++
			}
			h := ev.Heading
			h.Line = i + 1
			doc.Headings = append(doc.Headings, h)
			doc.Items = append(doc.Items, Item{Heading: &h})
		case EventDropped:
			doc.Dropped++
		case EventEntry:
			entry, err := e.buildEntry(ctx, path, ev, i+1, resolver)
			if err != nil {
				return nil, err
			}
			doc.Items = append(doc.Items, Item{Entry: entry})
		}
	}
	if state.Accumulating() {
		doc.Dropped++
	}
	return doc, nil
}

func (e *Extractor) buildEntry(ctx context.Context, path string, ev Event, line int, r *Resolver) (*Entry, error) {
	entry := &Entry{
		Declaration: NormalizeDeclaration(ev.Declaration),
		Statement:   StatementForm(ev.Declaration),
		Description: JoinDescription(ev.Doc),
		Doc:         ev.Doc,
		Line:        line,
		Resolution:  ResolvedSkipped,
	}

	if e.opts.ResolveLines {
		def, res, err := r.Resolve(entry.Declaration)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entry.Definition = def
		entry.Resolution = res
	}

	if e.opts.Classifier != nil {
		entry.Symbol = e.opts.Classifier.Classify(ctx, entry.Declaration)
	} else {
		entry.Symbol = fallbackSymbol(entry.Declaration)
	}
	entry.ID = BuildStableEntryID(path, entry)
	return entry, nil
}

// SplitLines splits content into lines without terminators.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
