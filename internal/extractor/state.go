package extractor

// EventKind describes what a single line contributed to the document.
type EventKind int

const (
	EventNone EventKind = iota
	// EventStop marks the sentinel line. No further lines are read.
	EventStop
	EventHeading
	EventEntry
	// EventDropped reports a pending block discarded without a declaration.
	EventDropped
)

// Event is the output of one state transition.
type Event struct {
	Kind EventKind
	// Heading is set for EventHeading.
	Heading Heading
	// Doc holds the closed block for EventEntry and the discarded block
	// for EventDropped.
	Doc []string
	// Declaration is the raw declaration line for EventEntry.
	Declaration string
}

// State is the accumulator of the comment state machine. The zero value is
// idle.
type State struct {
	pending []string
}

// Accumulating reports whether comment text is pending.
func (s State) Accumulating() bool {
	return len(s.pending) > 0
}

// Pending returns a copy of the accumulated comment lines.
func (s State) Pending() []string {
	return append([]string(nil), s.pending...)
}

// Step applies one line to the state and returns the next state with the
// event it produced. It never mutates s.
func (g Grammar) Step(s State, line string) (State, Event) {
	kind := g.Classify(line)
	switch kind {
	case LineSentinel:
		return State{}, dropOr(s, Event{Kind: EventStop})
	case LineMajor, LineMinor:
		h := Heading{Kind: HeadingMinor, Level: 2, Text: g.HeadingText(line, kind)}
		if kind == LineMajor {
			h.Kind = HeadingMajor
			h.Level = 1
		}
		h.Anchor = Anchor(h.Text)
		ev := Event{Kind: EventHeading, Heading: h}
		if s.Accumulating() {
			ev.Doc = s.Pending()
		}
		return State{}, ev
	case LineIgnore:
		return s, Event{}
	case LineComment:
		next := make([]string, len(s.pending), len(s.pending)+1)
		copy(next, s.pending)
		return State{pending: append(next, g.CommentText(line))}, Event{}
	case LineBlank:
		if g.DropOnBlank && s.Accumulating() {
			return State{}, Event{Kind: EventDropped, Doc: s.Pending()}
		}
		// Any other line closes the block, a blank one included.
		fallthrough
	default:
		if s.Accumulating() {
			return State{}, Event{Kind: EventEntry, Doc: s.Pending(), Declaration: line}
		}
		return s, Event{}
	}
}

func dropOr(s State, ev Event) Event {
	if s.Accumulating() {
		ev.Doc = s.Pending()
	}
	return ev
}
