package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved is returned under PolicyStrict when a declaration has no
// definition later in the file.
var ErrUnresolved = errors.New("unresolved declaration")

// Policy decides what happens when a declaration has no second occurrence.
type Policy string

const (
	// PolicyLenient falls back to the first occurrence, or 0 if none.
	PolicyLenient Policy = "lenient"
	// PolicyStrict fails the run.
	PolicyStrict Policy = "strict"
)

// ParsePolicy accepts "lenient", "strict" or "" (lenient).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown resolution policy: %q", s)
	}
}

// Resolution records how a definition line was found.
type Resolution string

const (
	ResolvedSkipped  Resolution = "skipped"
	ResolvedDefined  Resolution = "definition"
	ResolvedFallback Resolution = "fallback"
	ResolvedNone     Resolution = "none"
)

// Resolver finds the defining line of a declaration in the full file text.
type Resolver struct {
	lines  []string
	policy Policy
}

// NewResolver creates a resolver over the in-memory file lines.
func NewResolver(lines []string, policy Policy) *Resolver {
	if policy == "" {
		policy = PolicyLenient
	}
	return &Resolver{lines: lines, policy: policy}
}

// Resolve returns the 1-indexed line of the second line starting with decl.
// The first occurrence is the documented declaration itself.
func (r *Resolver) Resolve(decl string) (int, Resolution, error) {
	first, second := r.occurrences(decl)
	if second > 0 {
		return second, ResolvedDefined, nil
	}
	if r.policy == PolicyStrict {
		return 0, ResolvedNone, fmt.Errorf("%w: %s", ErrUnresolved, decl)
	}
	if first > 0 {
		return first, ResolvedFallback, nil
	}
	return 0, ResolvedNone, nil
}

func (r *Resolver) occurrences(decl string) (first, second int) {
	if decl == "" {
		return 0, 0
	}
	for i, line := range r.lines {
		if !strings.HasPrefix(line, decl) {
			continue
		}
		if first == 0 {
			first = i + 1
			continue
		}
		return first, i + 1
	}
	return first, 0
}

// ResolveLine is a convenience wrapper using PolicyLenient.
func ResolveLine(lines []string, decl string) int {
	n, _, _ := NewResolver(lines, PolicyLenient).Resolve(decl)
	return n
}
