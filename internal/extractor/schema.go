package extractor

// HeadingKind distinguishes top-level TITLE markers from MARK markers.
type HeadingKind string

const (
	HeadingMajor HeadingKind = "major"
	HeadingMinor HeadingKind = "minor"
)

// Heading is a classified section marker line.
type Heading struct {
	Kind   HeadingKind `json:"kind"`
	Level  int         `json:"level"` // 1 for major, 2 for minor
	Text   string      `json:"text"`
	Anchor string      `json:"anchor"`
	Line   int         `json:"line"`
}

// Entry pairs one documentation block with the declaration that follows it.
type Entry struct {
	ID          string     `json:"id"`
	Declaration string     `json:"declaration"` // normalized, no trailing ';'
	Statement   string     `json:"statement"`   // normalized with exactly one ';'
	Description string     `json:"description"`
	Doc         []string   `json:"doc"`  // comment lines with the leader stripped
	Line        int        `json:"line"` // 1-indexed line of the declaration
	Definition  int        `json:"definition"`
	Resolution  Resolution `json:"resolution"`
	Symbol      Symbol     `json:"symbol"`
}

// Item is one element of the output stream: either an entry or a heading.
type Item struct {
	Entry   *Entry   `json:"entry,omitempty"`
	Heading *Heading `json:"heading,omitempty"`
}

// Document is the result of a single extraction pass over one header.
type Document struct {
	Path     string    `json:"path"`
	Items    []Item    `json:"items"`
	Headings []Heading `json:"headings"`
	// Dropped counts comment blocks that never reached a declaration.
	Dropped int `json:"dropped"`
	// Ignored counts annotation lines (e.g. TODO) skipped by the grammar.
	Ignored int `json:"ignored"`
	// StoppedAt is the 1-indexed sentinel line, 0 if the sentinel was absent.
	StoppedAt int `json:"stopped_at"`
}

// Entries returns the documented entries in source order.
func (d *Document) Entries() []*Entry {
	var out []*Entry
	for _, it := range d.Items {
		if it.Entry != nil {
			out = append(out, it.Entry)
		}
	}
	return out
}

// Unresolved returns entries whose definition line fell back or was not found.
func (d *Document) Unresolved() []*Entry {
	var out []*Entry
	for _, e := range d.Entries() {
		if e.Resolution == ResolvedFallback || e.Resolution == ResolvedNone {
			out = append(out, e)
		}
	}
	return out
}
