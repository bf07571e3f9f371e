package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// BuildStableEntryID creates a deterministic ID for an entry.
// The ID is derived from the file name, symbol identity and a canonical
// declaration hash, so it survives edits that only move the declaration.
func BuildStableEntryID(path string, e *Entry) string {
	if e == nil {
		return ""
	}

	file := filepath.Base(strings.TrimSpace(path))
	if file == "" || file == "." {
		file = "_"
	}

	kind := strings.TrimSpace(string(e.Symbol.Kind))
	if kind == "" {
		kind = string(KindUnknown)
	}

	name := strings.TrimSpace(e.Symbol.Name)
	if name == "" {
		name = "_"
	}

	fingerprint := strings.Join([]string{
		file,
		kind,
		name,
		canonicalize(e.Declaration),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s:%s:%s:%s", file, kind, name, short)
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}
