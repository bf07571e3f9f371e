package storage

import (
	"context"
	"path/filepath"
	"testing"

	"headerdoc/internal/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveDocument_SnapshotSync(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	// Initial snapshot: alloc and free in buddy.h, helper in other.h
	require.NoError(t, store.SaveDocument(ctx, testDocument("buddy.h",
		testEntry("alloc", "void *alloc(u64 n)", 2, 40),
		testEntry("free", "void free(void *p)", 4, 0),
	)))
	require.NoError(t, store.SaveDocument(ctx, testDocument("other.h",
		testEntry("helper", "int helper(void)", 7, 12),
	)))

	// New snapshot of buddy.h: free removed, alloc moved.
	require.NoError(t, store.SaveDocument(ctx, testDocument("buddy.h",
		testEntry("alloc", "void *alloc(u64 n)", 3, 41),
	)))

	records, err := store.FindByFile(ctx, "buddy.h")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alloc", records[0].Name)
	assert.Equal(t, 3, records[0].Line)
	assert.Equal(t, 41, records[0].Definition)
	assert.Equal(t, []string{"Docs for alloc."}, records[0].Doc)

	gone, err := store.FindByName(ctx, "free")
	require.NoError(t, err)
	assert.Empty(t, gone)

	other, err := store.FindByName(ctx, "helper")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "other.h", other[0].File)
	assert.Equal(t, "function", other[0].Kind)
	assert.Equal(t, "definition", other[0].Resolution)
}

func TestSQLiteStore_SaveDocument_EmptySnapshotClearsFile(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, testDocument("x.h", testEntry("f", "void f(void)", 1, 9))))
	require.NoError(t, store.SaveDocument(ctx, testDocument("x.h")))

	records, err := store.FindByFile(ctx, "x.h")
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Error(t, store.SaveDocument(ctx, nil))
}

func testDocument(path string, entries ...*extractor.Entry) *extractor.Document {
	doc := &extractor.Document{Path: path}
	for _, e := range entries {
		e.ID = extractor.BuildStableEntryID(path, e)
		doc.Items = append(doc.Items, extractor.Item{Entry: e})
	}
	return doc
}

func testEntry(name, decl string, line, def int) *extractor.Entry {
	return &extractor.Entry{
		Declaration: decl,
		Statement:   decl + ";",
		Description: "Docs for " + name + ".",
		Doc:         []string{"Docs for " + name + "."},
		Line:        line,
		Definition:  def,
		Resolution:  extractor.ResolvedDefined,
		Symbol:      extractor.Symbol{Name: name, Kind: extractor.KindFunction},
	}
}
