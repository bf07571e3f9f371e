package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommitPlaceholder is replaced by the HEAD commit in link bases.
const CommitPlaceholder = "{commit}"

// HeadCommit runs git rev-parse in dir and returns the full HEAD SHA.
func HeadCommit(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseRevParse(output)
}

func parseRevParse(output []byte) (string, error) {
	sha := strings.TrimSpace(string(output))
	if len(sha) < 7 || strings.ContainsAny(sha, " \n\t") {
		return "", fmt.Errorf("unexpected rev-parse output: %q", sha)
	}
	return sha, nil
}

// ExpandLinkBase substitutes {commit} in base using the repository that
// contains source. Bases without the placeholder are returned unchanged.
func ExpandLinkBase(base, source string) (string, error) {
	if !strings.Contains(base, CommitPlaceholder) {
		return base, nil
	}
	sha, err := HeadCommit(filepath.Dir(source))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(base, CommitPlaceholder, sha), nil
}
