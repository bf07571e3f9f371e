package extractor

import "strings"

// Default line prefixes recognized in annotated headers.
const (
	DefaultSentinel  = "#ifdef BUDDY_IMPLEMENTATION"
	DefaultMajor     = "// TITLE"
	DefaultMinor     = "// MARK"
	DefaultDelimiter = ":"
	DefaultIgnore    = "// TODO"
	DefaultComment   = "//"
)

// LineKind is the classification of a single header line.
type LineKind int

const (
	LineOther LineKind = iota
	LineBlank
	LineComment
	LineIgnore
	LineMinor
	LineMajor
	LineSentinel
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineIgnore:
		return "ignore"
	case LineMinor:
		return "minor"
	case LineMajor:
		return "major"
	case LineSentinel:
		return "sentinel"
	default:
		return "other"
	}
}

// Grammar holds the prefixes used to classify lines. All tests are
// case-sensitive and anchored at the start of the line.
type Grammar struct {
	Sentinel  string `yaml:"sentinel" json:"sentinel"`
	Major     string `yaml:"major" json:"major"`
	Minor     string `yaml:"minor" json:"minor"`
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	Ignore    string `yaml:"ignore" json:"ignore"`
	Comment   string `yaml:"comment" json:"comment"`

	// DropOnBlank discards a pending block at a blank line instead of
	// pairing the block with it.
	DropOnBlank bool `yaml:"drop_on_blank" json:"drop_on_blank"`
}

// DefaultGrammar returns the grammar of buddy-style headers.
func DefaultGrammar() Grammar {
	return Grammar{
		Sentinel:  DefaultSentinel,
		Major:     DefaultMajor,
		Minor:     DefaultMinor,
		Delimiter: DefaultDelimiter,
		Ignore:    DefaultIgnore,
		Comment:   DefaultComment,
	}
}

// WithDefaults fills empty prefixes from DefaultGrammar.
func (g Grammar) WithDefaults() Grammar {
	d := DefaultGrammar()
	if g.Sentinel == "" {
		g.Sentinel = d.Sentinel
	}
	if g.Major == "" {
		g.Major = d.Major
	}
	if g.Minor == "" {
		g.Minor = d.Minor
	}
	if g.Delimiter == "" {
		g.Delimiter = d.Delimiter
	}
	if g.Ignore == "" {
		g.Ignore = d.Ignore
	}
	if g.Comment == "" {
		g.Comment = d.Comment
	}
	return g
}

// Classify returns the kind of line. More specific prefixes are tested
// before the generic comment prefix.
func (g Grammar) Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, g.Sentinel):
		return LineSentinel
	case strings.HasPrefix(line, g.Major):
		return LineMajor
	case strings.HasPrefix(line, g.Minor):
		return LineMinor
	case strings.HasPrefix(line, g.Ignore):
		return LineIgnore
	case strings.HasPrefix(line, g.Comment):
		return LineComment
	case strings.TrimSpace(line) == "":
		return LineBlank
	default:
		return LineOther
	}
}

// HeadingText extracts the display text of a section marker line.
func (g Grammar) HeadingText(line string, kind LineKind) string {
	rest := line
	switch kind {
	case LineMajor:
		rest = strings.TrimPrefix(line, g.Major)
	case LineMinor:
		rest = strings.TrimPrefix(line, g.Minor)
	}
	if idx := strings.Index(rest, g.Delimiter); idx >= 0 {
		rest = rest[idx+len(g.Delimiter):]
	}
	return strings.TrimSpace(rest)
}

// CommentText strips the comment leader and one following space.
func (g Grammar) CommentText(line string) string {
	text := strings.TrimPrefix(line, g.Comment)
	text = strings.TrimPrefix(text, " ")
	return strings.TrimRight(text, " \t\r")
}
