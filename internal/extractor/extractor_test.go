package extractor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractFromFile(t *testing.T) {
	testFile := filepath.Join("testdata", "arena.h")

	ext := NewExtractor(Options{ResolveLines: true, Classifier: NewSymbolClassifier()})
	doc, err := ext.ExtractFromFile(context.Background(), testFile)
	require.NoError(t, err)

	entries := doc.Entries()
	byName := make(map[string]*Entry)
	for _, e := range entries {
		byName[e.Symbol.Name] = e
	}

	t.Run("Overall Count", func(t *testing.T) {
		assert.Len(t, entries, 5, "zero_memory, copy_memory, Arena, arena_new, arena_alloc")
		assert.Len(t, doc.Headings, 3)
		assert.Equal(t, 1, doc.Dropped, "trailing block before the sentinel is dropped")
		assert.Equal(t, 1, doc.Ignored)
		assert.Equal(t, 33, doc.StoppedAt)
	})

	t.Run("Source Order", func(t *testing.T) {
		var names []string
		for _, e := range entries {
			names = append(names, e.Symbol.Name)
		}
		assert.Equal(t, []string{"zero_memory", "copy_memory", "Arena", "arena_new", "arena_alloc"}, names)
	})

	t.Run("Headings", func(t *testing.T) {
		assert.Equal(t, Heading{Kind: HeadingMinor, Level: 2, Text: "Common", Anchor: "common", Line: 5}, doc.Headings[0])
		assert.Equal(t, Heading{Kind: HeadingMajor, Level: 1, Text: "Memory", Anchor: "memory", Line: 12}, doc.Headings[1])
		assert.Equal(t, "Arena", doc.Headings[2].Text)
	})

	t.Run("Functions", func(t *testing.T) {
		e, ok := byName["zero_memory"]
		require.True(t, ok)
		assert.Equal(t, KindFunction, e.Symbol.Kind)
		assert.Equal(t, "void zero_memory(void *p, u64 size)", e.Declaration)
		assert.Equal(t, "void zero_memory(void *p, u64 size);", e.Statement)
		assert.Equal(t, "Zeros out memory. Size is in bytes.", e.Description)
		assert.Equal(t, 8, e.Line)
		assert.Equal(t, 40, e.Definition)
		assert.Equal(t, ResolvedDefined, e.Resolution)
	})

	t.Run("Ignored Annotation Inside Block", func(t *testing.T) {
		e, ok := byName["arena_alloc"]
		require.True(t, ok)
		assert.Equal(t, "Allocates size bytes in the arena.", e.Description)
		assert.Equal(t, 53, e.Definition)
	})

	t.Run("Multi-line Description", func(t *testing.T) {
		e, ok := byName["Arena"]
		require.True(t, ok)
		assert.Equal(t, "An arena hands out memory from one block and frees it all at once.", e.Description)
		assert.Equal(t, []string{"An arena hands out memory from one block", "and frees it all at once."}, e.Doc)
		assert.Equal(t, ResolvedFallback, e.Resolution, "struct typedefs have no second occurrence")
		assert.Equal(t, 18, e.Definition)
	})

	t.Run("Nothing After Sentinel", func(t *testing.T) {
		_, ok := byName["internal_helper"]
		assert.False(t, ok)
		for _, h := range doc.Headings {
			assert.NotEqual(t, "Internal", h.Text)
		}
	})

	t.Run("Stable IDs", func(t *testing.T) {
		e := byName["zero_memory"]
		assert.True(t, strings.HasPrefix(e.ID, "arena.h:function:zero_memory:"), e.ID)
	})
}

func TestExtractor_MissingFile(t *testing.T) {
	ext := NewExtractor(Options{})
	_, err := ext.ExtractFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.h"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestExtractor_ScenarioFromDocs(t *testing.T) {
	src := strings.Join([]string{
		"// Allocates n bytes.",
		"void *alloc(size_t n);",
		"// TODO fix this",
		"// MARK: Cleanup",
		"// Frees a pointer.",
		"void free(void *p);",
		"#ifdef BUDDY_IMPLEMENTATION",
		"void *alloc(size_t n) { ... }",
	}, "\n")

	doc, err := NewExtractor(Options{ResolveLines: true}).Extract(context.Background(), "buddy.h", src)
	require.NoError(t, err)

	require.Len(t, doc.Items, 3)
	require.NotNil(t, doc.Items[0].Entry)
	assert.Equal(t, "void *alloc(size_t n)", doc.Items[0].Entry.Declaration)
	assert.Equal(t, "Allocates n bytes.", doc.Items[0].Entry.Description)
	assert.Equal(t, 8, doc.Items[0].Entry.Definition)

	require.NotNil(t, doc.Items[1].Heading)
	assert.Equal(t, "Cleanup", doc.Items[1].Heading.Text)

	require.NotNil(t, doc.Items[2].Entry)
	assert.Equal(t, "void free(void *p)", doc.Items[2].Entry.Declaration)
	assert.Equal(t, "Frees a pointer.", doc.Items[2].Entry.Description)
	assert.Equal(t, ResolvedFallback, doc.Items[2].Entry.Resolution)
	assert.Equal(t, 6, doc.Items[2].Entry.Definition)
	assert.Equal(t, 7, doc.StoppedAt)
}

func TestExtractor_StrictPolicyAborts(t *testing.T) {
	src := "// Frees a pointer.\nvoid free(void *p);\n"
	_, err := NewExtractor(Options{ResolveLines: true, Policy: PolicyStrict}).Extract(context.Background(), "x.h", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "void free(void *p)")
}

func TestExtractor_EntryCountMatchesDocumentedDeclarations(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("// doc line one\n// doc line two\n")
		b.WriteString("int f")
		b.WriteString(strings.Repeat("x", i))
		b.WriteString("(void);\n")
		if i%3 == 0 {
			b.WriteString("\n")
		}
	}
	doc, err := NewExtractor(Options{}).Extract(context.Background(), "n.h", b.String())
	require.NoError(t, err)

	entries := doc.Entries()
	require.Len(t, entries, 25)
	for i, e := range entries {
		assert.Equal(t, "int f"+strings.Repeat("x", i)+"(void)", e.Declaration)
		assert.Equal(t, ResolvedSkipped, e.Resolution)
		assert.Zero(t, e.Definition)
	}
}

func TestExtractor_DroppedBlocks(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dropped int
	}{
		{"followed by marker", "// orphan\n// MARK: Next\nint x;\n", 1},
		{"followed by title", "// orphan\n// TITLE: Next\n", 1},
		{"followed by sentinel", "// orphan\n#ifdef BUDDY_IMPLEMENTATION\nint x;\n", 1},
		{"at end of file", "int x;\n// orphan\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewExtractor(Options{}).Extract(context.Background(), "d.h", tt.src)
			require.NoError(t, err)
			assert.Empty(t, doc.Entries())
			assert.Equal(t, tt.dropped, doc.Dropped)
		})
	}
}

func TestExtractor_BlankLineClosesBlock(t *testing.T) {
	src := "// doc\n\nint x;\n"

	doc, err := NewExtractor(Options{ResolveLines: true}).Extract(context.Background(), "b.h", src)
	require.NoError(t, err)
	entries := doc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 0, doc.Dropped)
	assert.Equal(t, "", entries[0].Declaration)
	assert.Equal(t, "", entries[0].Statement)
	assert.Equal(t, "doc", entries[0].Description)
	assert.Equal(t, 2, entries[0].Line)
	assert.Equal(t, 0, entries[0].Definition)
	assert.Equal(t, ResolvedNone, entries[0].Resolution)

	g := DefaultGrammar()
	g.DropOnBlank = true
	doc, err = NewExtractor(Options{Grammar: g}).Extract(context.Background(), "b.h", src)
	require.NoError(t, err)
	assert.Empty(t, doc.Entries())
	assert.Equal(t, 1, doc.Dropped)
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(Options{}).Extract(ctx, "c.h", "// doc\nint x;\n")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}
