package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"headerdoc/internal/extractor"
	"headerdoc/internal/generator"
	"headerdoc/internal/git"
	"headerdoc/internal/storage"

	"github.com/sirupsen/logrus"
)

// ErrUsage is returned for malformed invocations.
var ErrUsage = errors.New("incorrect arg count, expects one: <file>")

// Options configures one documentation run over a single header.
type Options struct {
	Source  string
	Output  string
	Format  generator.Format
	Render  generator.RenderOptions
	Grammar extractor.Grammar
	Policy  extractor.Policy

	// Optional artifacts; empty paths disable them.
	JSONPath   string
	ReportPath string
	DBPath     string

	Logger logrus.FieldLogger
}

// Result describes a completed run.
type Result struct {
	Document *extractor.Document
	Output   string
	Report   *generator.PipelineReport
}

// Runner executes runs with a shared symbol classifier.
type Runner struct {
	opts       Options
	classifier *extractor.SymbolClassifier
	log        logrus.FieldLogger
}

func NewRunner(opts Options) *Runner {
	if opts.Format == "" {
		opts.Format = generator.FormatMarkdown
	}
	if opts.Output == "" {
		opts.Output = opts.Format.DefaultOutput()
	}
	if opts.Policy == "" {
		opts.Policy = extractor.PolicyLenient
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		opts:       opts,
		classifier: extractor.NewSymbolClassifier(),
		log:        log.WithField("source", opts.Source),
	}
}

// Run reads the source once, extracts, renders and writes the output. The
// output file is untouched when any stage before the write fails.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.opts.Source == "" {
		return nil, ErrUsage
	}
	start := time.Now()
	report := generator.NewPipelineReport(string(r.opts.Format), r.opts.Source, r.opts.Output)

	doc, err := r.extractStage(ctx, report)
	if err != nil {
		return nil, err
	}

	content, err := r.renderStage(doc, report)
	if err != nil {
		return nil, err
	}

	h := report.BeginStage("write")
	if err := generator.WriteFileAtomic(r.opts.Output, []byte(content)); err != nil {
		report.EndStage(h, "error", nil, nil, err)
		return nil, fmt.Errorf("failed to write %s: %w", r.opts.Output, err)
	}
	report.EndStage(h, "ok", map[string]float64{"bytes": float64(len(content))}, nil, nil)

	if err := r.artifactStage(ctx, doc, report); err != nil {
		return nil, err
	}

	report.SetCounts(len(doc.Entries()), len(doc.Headings), doc.Dropped, len(doc.Unresolved()))
	if r.opts.ReportPath != "" {
		if err := report.Save(r.opts.ReportPath); err != nil {
			return nil, fmt.Errorf("failed to save report: %w", err)
		}
	}

	r.log.WithFields(logrus.Fields{
		"entries":  len(doc.Entries()),
		"headings": len(doc.Headings),
		"output":   r.opts.Output,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("documentation written")

	return &Result{Document: doc, Output: r.opts.Output, Report: report}, nil
}

func (r *Runner) extractStage(ctx context.Context, report *generator.PipelineReport) (*extractor.Document, error) {
	h := report.BeginStage("extract")
	ext := extractor.NewExtractor(extractor.Options{
		Grammar:      r.opts.Grammar,
		ResolveLines: r.opts.Render.Links,
		Policy:       r.opts.Policy,
		Classifier:   r.classifier,
	})
	doc, err := ext.ExtractFromFile(ctx, r.opts.Source)
	if err != nil {
		report.EndStage(h, "error", nil, nil, err)
		return nil, err
	}

	for _, e := range doc.Unresolved() {
		msg := fmt.Sprintf("no definition found for %q (line %d)", e.Declaration, e.Line)
		if e.Resolution == extractor.ResolvedFallback {
			msg = fmt.Sprintf("single occurrence of %q, linking line %d", e.Declaration, e.Definition)
		}
		r.log.WithField("line", e.Line).Warn(msg)
		report.AddSignal("definition_"+string(e.Resolution), "extract", "warning", msg, float64(e.Line))
	}
	if doc.Dropped > 0 {
		r.log.WithField("blocks", doc.Dropped).Warn("comment blocks without a declaration were dropped")
		report.AddSignal("blocks_dropped", "extract", "info", "comment blocks without a declaration", float64(doc.Dropped))
	}
	if doc.StoppedAt == 0 {
		r.log.Debug("implementation sentinel not found, scanned whole file")
	}

	report.EndStage(h, "ok", map[string]float64{
		"entries":    float64(len(doc.Entries())),
		"headings":   float64(len(doc.Headings)),
		"dropped":    float64(doc.Dropped),
		"ignored":    float64(doc.Ignored),
		"unresolved": float64(len(doc.Unresolved())),
	}, nil, nil)
	return doc, nil
}

func (r *Runner) renderStage(doc *extractor.Document, report *generator.PipelineReport) (string, error) {
	h := report.BeginStage("render")
	opts := r.opts.Render
	base, err := git.ExpandLinkBase(opts.LinkBase, r.opts.Source)
	if err != nil {
		report.EndStage(h, "error", nil, nil, err)
		return "", fmt.Errorf("failed to expand link base: %w", err)
	}
	opts.LinkBase = base

	renderer, err := generator.NewRenderer(r.opts.Format, opts)
	if err != nil {
		report.EndStage(h, "error", nil, nil, err)
		return "", err
	}
	content, err := renderer.Render(doc)
	if err != nil {
		report.EndStage(h, "error", nil, nil, err)
		return "", fmt.Errorf("failed to render: %w", err)
	}
	report.EndStage(h, "ok", nil, nil, nil)
	return content, nil
}

func (r *Runner) artifactStage(ctx context.Context, doc *extractor.Document, report *generator.PipelineReport) error {
	if r.opts.JSONPath != "" {
		h := report.BeginStage("doc_model")
		title := r.opts.Render.Title
		if title == "" {
			title = generator.DefaultTitle(doc.Path)
		}
		model := generator.BuildDocModel(doc, title, r.opts.Format, time.Now().UTC().Format(time.RFC3339))
		counters := r.compareModel(model, report)
		if err := generator.SaveDocModel(r.opts.JSONPath, model); err != nil {
			report.EndStage(h, "error", nil, nil, err)
			return fmt.Errorf("failed to save doc model: %w", err)
		}
		report.EndStage(h, "ok", counters, []string{r.opts.JSONPath}, nil)
	}

	if r.opts.DBPath != "" {
		h := report.BeginStage("index")
		store, err := storage.NewSQLiteStore(r.opts.DBPath)
		if err != nil {
			report.EndStage(h, "error", nil, nil, err)
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		if err := store.SaveDocument(ctx, doc); err != nil {
			report.EndStage(h, "error", nil, nil, err)
			return fmt.Errorf("failed to index entries: %w", err)
		}
		report.EndStage(h, "ok", map[string]float64{"records": float64(len(doc.Entries()))}, nil, nil)
	}
	return nil
}

// compareModel reports entries added or removed since the model previously
// saved at the JSON path. A missing or unreadable previous model is skipped.
func (r *Runner) compareModel(model *generator.DocModel, report *generator.PipelineReport) map[string]float64 {
	prev, err := generator.LoadDocModel(r.opts.JSONPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.WithError(err).Warn("previous doc model unreadable, skipping comparison")
		}
		return nil
	}
	diff := generator.DiffDocModels(prev, model)
	if !diff.Empty() {
		r.log.WithFields(logrus.Fields{
			"added":   len(diff.Added),
			"removed": len(diff.Removed),
		}).Info("documented entries changed since last run")
		for _, id := range diff.Removed {
			report.AddSignal("entry_removed", "doc_model", "info", "entry removed: "+id, 0)
		}
	}
	return map[string]float64{
		"added":   float64(len(diff.Added)),
		"removed": float64(len(diff.Removed)),
	}
}
