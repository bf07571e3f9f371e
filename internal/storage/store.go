package storage

import (
	"context"

	"headerdoc/internal/extractor"
)

// Record is one documented entry as persisted in the index.
type Record struct {
	ID          string
	File        string
	Name        string
	Kind        string
	Declaration string
	Description string
	Line        int
	Definition  int
	Resolution  string
	Doc         []string
}

// EntryStore persists documented entries across runs.
type EntryStore interface {
	// SaveDocument replaces every record of doc.Path with the entries of doc.
	SaveDocument(ctx context.Context, doc *extractor.Document) error

	// FindByName returns records whose symbol name matches exactly.
	FindByName(ctx context.Context, name string) ([]*Record, error)

	// FindByFile returns the records of one source file in line order.
	FindByFile(ctx context.Context, file string) ([]*Record, error)

	Close() error
}
