package extractor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linesWith(n int, at map[int]string) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("int filler_%d;", i+1)
	}
	for ln, s := range at {
		lines[ln-1] = s
	}
	return lines
}

func TestResolver_SecondOccurrence(t *testing.T) {
	lines := linesWith(50, map[int]string{
		5:  "void *alloc(u64 n);",
		42: "void *alloc(u64 n)",
	})

	for _, p := range []Policy{PolicyLenient, PolicyStrict} {
		n, res, err := NewResolver(lines, p).Resolve("void *alloc(u64 n)")
		require.NoError(t, err)
		assert.Equal(t, 42, n, "policy %s", p)
		assert.Equal(t, ResolvedDefined, res)
	}
	assert.Equal(t, 42, ResolveLine(lines, "void *alloc(u64 n)"))
}

func TestResolver_ThirdOccurrenceIgnored(t *testing.T) {
	lines := linesWith(30, map[int]string{
		3:  "int f(void);",
		10: "int f(void)",
		20: "int f(void)",
	})
	assert.Equal(t, 10, ResolveLine(lines, "int f(void)"))
}

func TestResolver_SingleOccurrence(t *testing.T) {
	lines := linesWith(10, map[int]string{7: "u64 temp_mark();"})

	n, res, err := NewResolver(lines, PolicyLenient).Resolve("u64 temp_mark()")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, ResolvedFallback, res)

	_, res, err = NewResolver(lines, PolicyStrict).Resolve("u64 temp_mark()")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Equal(t, ResolvedNone, res)
}

func TestResolver_NoOccurrence(t *testing.T) {
	lines := linesWith(3, nil)
	n, res, err := NewResolver(lines, PolicyLenient).Resolve("void missing(void)")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, ResolvedNone, res)

	n, _, err = NewResolver(lines, "").Resolve("")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResolver_PrefixMatchIsAnchored(t *testing.T) {
	lines := []string{
		"void f(void);",
		"    void f(void)",
		"void f(void)",
	}
	assert.Equal(t, 3, ResolveLine(lines, "void f(void)"))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)

	p, err = ParsePolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("maybe")
	assert.Error(t, err)
}
