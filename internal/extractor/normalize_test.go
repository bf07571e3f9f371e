package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDeclaration_Idempotent(t *testing.T) {
	inputs := []string{
		"void f(void);",
		"void f(void)",
		"  void f(void) ;;  ",
		"int x; ;",
		";",
		"",
		"typedef struct Arena\r",
	}
	for _, in := range inputs {
		once := NormalizeDeclaration(in)
		assert.Equal(t, once, NormalizeDeclaration(once), "input %q", in)

		stmt := StatementForm(in)
		assert.Equal(t, stmt, StatementForm(stmt), "input %q", in)
	}
	assert.Equal(t, "int x", NormalizeDeclaration("int x; ;"))
	assert.Equal(t, "void f(void);", StatementForm("void f(void);;"))
	assert.Equal(t, "", StatementForm(";"))
}

func TestJoinDescription(t *testing.T) {
	assert.Equal(t, "Allocates memory. Returns NULL on failure.",
		JoinDescription([]string{"Allocates memory.", "", "  Returns NULL on failure.  "}))
	assert.Equal(t, "", JoinDescription(nil))
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "memory-functions", Anchor("Memory Functions"))
	assert.Equal(t, "temporary-allocator", Anchor("  Temporary   Allocator "))
	assert.Equal(t, "i/o-(files)", Anchor("I/O (Files)"))
}

func TestBuildStableEntryID(t *testing.T) {
	a := &Entry{Declaration: "void f(void)", Symbol: Symbol{Name: "f", Kind: KindFunction}, Line: 3}
	b := &Entry{Declaration: "void  f(void)", Symbol: Symbol{Name: "f", Kind: KindFunction}, Line: 90}
	c := &Entry{Declaration: "void f(int)", Symbol: Symbol{Name: "f", Kind: KindFunction}}

	assert.Equal(t, BuildStableEntryID("inc/x.h", a), BuildStableEntryID("x.h", b))
	assert.NotEqual(t, BuildStableEntryID("x.h", a), BuildStableEntryID("x.h", c))
	assert.Empty(t, BuildStableEntryID("x.h", nil))
}

func TestSymbolClassifier_Classify(t *testing.T) {
	sc := NewSymbolClassifier()
	ctx := context.Background()

	tests := []struct {
		decl string
		want Symbol
	}{
		{"void *alloc(Allocator a, u64 size)", Symbol{Name: "alloc", Kind: KindFunction}},
		{"u64 temp_mark()", Symbol{Name: "temp_mark", Kind: KindFunction}},
		{"int counter", Symbol{Name: "counter", Kind: KindVariable}},
		{"void (*cb)(int)", Symbol{Name: "cb", Kind: KindVariable}},
		{"void (*get_handler(int sig))(int)", Symbol{Name: "get_handler", Kind: KindFunction}},
		{"void *(*alloc_fn)(u64 size)", Symbol{Name: "alloc_fn", Kind: KindVariable}},
		{"typedef unsigned char u8", Symbol{Name: "u8", Kind: KindTypedef}},
		{"#define KB(n) (n * 1024ull)", Symbol{Name: "KB", Kind: KindMacro}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sc.Classify(ctx, tt.decl), "decl %q", tt.decl)
	}

	assert.Equal(t, "Arena", sc.Classify(ctx, "typedef struct Arena").Name)
}

func TestFallbackSymbol(t *testing.T) {
	assert.Equal(t, Symbol{Name: "alloc", Kind: KindUnknown}, fallbackSymbol("void *alloc(u64 n);"))
	assert.Equal(t, Symbol{Kind: KindUnknown}, fallbackSymbol("{"))
}

func TestAnchorSet_Next(t *testing.T) {
	s := AnchorSet{}
	assert.Equal(t, "memory-functions", s.Next("Memory Functions"))
	assert.Equal(t, "memory-functions-1", s.Next("memory   functions"))
	assert.Equal(t, "arena", s.Next("Arena"))
	assert.Equal(t, "memory-functions-2", s.Next("Memory Functions"))
}
