package generator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"headerdoc/internal/extractor"
)

const docModelSchemaVersion = "v1.0.0"

//go:embed doc_model.schema.json
var docModelSchemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// DocModel is the machine-readable form of an extracted header.
type DocModel struct {
	SchemaVersion string              `json:"schema_version"`
	Document      ModelDoc            `json:"document"`
	Headings      []extractor.Heading `json:"headings"`
	Entries       []ModelEntry        `json:"entries"`
	Stats         ModelStats          `json:"stats"`
	Meta          ModelMeta           `json:"meta"`
}

type ModelDoc struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Format string `json:"format"`
}

// ModelEntry flattens an entry together with the heading it appears under.
type ModelEntry struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Kind        extractor.SymbolKind `json:"kind"`
	Declaration string               `json:"declaration"`
	Description string               `json:"description"`
	Line        int                  `json:"line"`
	Definition  int                  `json:"definition"`
	Resolution  extractor.Resolution `json:"resolution"`
	Section     string               `json:"section,omitempty"`
}

type ModelStats struct {
	Entries    int `json:"entries"`
	Headings   int `json:"headings"`
	Dropped    int `json:"dropped"`
	Ignored    int `json:"ignored"`
	Unresolved int `json:"unresolved"`
	StoppedAt  int `json:"stopped_at"`
}

type ModelMeta struct {
	GeneratedAt      string `json:"generated_at"`
	GeneratorVersion string `json:"generator_version,omitempty"`
}

// BuildDocModel converts an extracted document.
func BuildDocModel(doc *extractor.Document, title string, format Format, now string) *DocModel {
	m := &DocModel{
		SchemaVersion: docModelSchemaVersion,
		Document:      ModelDoc{Title: title, Source: doc.Path, Format: string(format)},
		Headings:      append([]extractor.Heading{}, doc.Headings...),
		Entries:       []ModelEntry{},
		Meta:          ModelMeta{GeneratedAt: now},
	}

	section := ""
	seen := make(map[string]int)
	for _, it := range doc.Items {
		if it.Heading != nil {
			section = it.Heading.Text
			continue
		}
		e := it.Entry
		if e == nil {
			continue
		}
		// The same declaration may be documented twice; keep IDs unique.
		id := e.ID
		if n := seen[e.ID]; n > 0 {
			id = fmt.Sprintf("%s~%d", e.ID, n+1)
		}
		seen[e.ID]++
		m.Entries = append(m.Entries, ModelEntry{
			ID:          id,
			Name:        e.Symbol.Name,
			Kind:        e.Symbol.Kind,
			Declaration: e.Declaration,
			Description: e.Description,
			Line:        e.Line,
			Definition:  e.Definition,
			Resolution:  e.Resolution,
			Section:     section,
		})
	}

	m.Stats = ModelStats{
		Entries:    len(m.Entries),
		Headings:   len(m.Headings),
		Dropped:    doc.Dropped,
		Ignored:    doc.Ignored,
		Unresolved: len(doc.Unresolved()),
		StoppedAt:  doc.StoppedAt,
	}
	return m
}

// LoadDocModel reads a model written by SaveDocModel.
func LoadDocModel(path string) (*DocModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m DocModel
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ModelDiff lists entry IDs that appeared or disappeared between two models.
type ModelDiff struct {
	Added   []string
	Removed []string
}

func (d ModelDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffDocModels compares the entry IDs of a previous and a current model.
// Entry IDs ignore line numbers, so moved declarations are not reported.
func DiffDocModels(prev, next *DocModel) ModelDiff {
	ids := func(m *DocModel) map[string]bool {
		out := make(map[string]bool)
		if m == nil {
			return out
		}
		for _, e := range m.Entries {
			out[e.ID] = true
		}
		return out
	}
	before, after := ids(prev), ids(next)

	var d ModelDiff
	for id := range after {
		if !before[id] {
			d.Added = append(d.Added, id)
		}
	}
	for id := range before {
		if !after[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}

// SaveDocModel validates the model against the embedded schema and writes it.
func SaveDocModel(path string, model *DocModel) error {
	if err := ValidateDocModel(model); err != nil {
		return err
	}
	b, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return WriteFileAtomic(path, b)
}

func (m *DocModel) Validate() error {
	if m == nil {
		return fmt.Errorf("doc model is nil")
	}
	if m.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}
	ids := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if e.ID == "" {
			return fmt.Errorf("entry id is required")
		}
		if ids[e.ID] {
			return fmt.Errorf("duplicate entry id: %s", e.ID)
		}
		ids[e.ID] = true
	}
	return nil
}

// ValidateDocModel runs the structural checks and the JSON schema.
func ValidateDocModel(model *DocModel) error {
	if err := model.Validate(); err != nil {
		return err
	}

	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile doc model schema: %w", err)
	}

	var v any
	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal doc model for schema validation: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize doc model for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("doc model schema validation failed: %w", err)
	}
	return nil
}

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("doc_model.schema.json", bytes.NewReader(docModelSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("doc_model.schema.json")
	})
	return compiledSchema, schemaErr
}
