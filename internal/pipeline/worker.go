package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/parser"
)

// Worker parses and analyzes documents. A single Worker may be shared by
// goroutines; the engine holds no per-document state.
type Worker struct {
	engine *layout.Engine
	stats  *AnalysisStats
	jobs   *JobStore // optional; enables reuse of results for identical uploads
	log    *slog.Logger
}

func NewWorker(engine *layout.Engine, stats *AnalysisStats, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{engine: engine, stats: stats, log: log}
}

// Process runs parse and analysis for a queued job. Failures are recorded
// on the job, which then carries the empty summary.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		job.Fail("cancelled", err)
		return
	}

	if result, source, ok := w.dedupLookup(job); ok {
		log.Info("duplicate content, reusing result", "content_hash", job.ContentHash)
		job.Complete(result, source, "cached")
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := parseDocument(job.Filename, bytes.NewReader(job.FileData()))
	if err != nil {
		log.Error("parse failed", "error", err)
		w.record(start, OutcomeFailed)
		job.Fail("parsing", err)
		return
	}

	// Phase 2: Analyze
	job.SetStatus(StatusAnalyzing, "analyzing")
	a, err := w.analyze(doc)
	if err != nil {
		log.Error("analysis failed", "error", err)
		w.record(start, OutcomeFailed)
		job.Fail("analyzing", err)
		return
	}

	w.record(start, a.Source)
	log.Info("outline complete",
		"title_source", string(a.TitleSource),
		"source", a.Source,
		"entries", len(a.Summary.Outline),
		"duration_ms", time.Since(start).Milliseconds())
	job.Complete(a.Summary, a.Source, "done")
}

// Analyze parses r as filename and returns its analysis. Panics raised by
// the parser or the engine are returned as errors.
func (w *Worker) Analyze(filename string, r io.Reader) (layout.Analysis, error) {
	start := time.Now()
	doc, err := parseDocument(filename, r)
	if err != nil {
		w.record(start, OutcomeFailed)
		return layout.Analysis{}, err
	}
	a, err := w.analyze(doc)
	if err != nil {
		w.record(start, OutcomeFailed)
		return layout.Analysis{}, err
	}
	w.record(start, a.Source)
	return a, nil
}

func (w *Worker) analyze(doc *parser.Document) (a layout.Analysis, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("analyze %s: panic: %v", doc.Filename, rec)
		}
	}()
	return w.engine.AnalyzeDetailed(doc), nil
}

func parseDocument(filename string, r io.Reader) (doc *parser.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parse %s: panic: %v", filename, rec)
		}
	}()
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err = p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return doc, nil
}

func (w *Worker) record(start time.Time, outcome string) {
	if w.stats != nil {
		w.stats.Record(time.Since(start).Milliseconds(), outcome)
	}
}

func (w *Worker) dedupLookup(job *Job) (doctree.Summary, string, bool) {
	if w.jobs == nil || job.ContentHash == "" {
		return doctree.Summary{}, "", false
	}
	return w.jobs.CompletedByHash(job.ContentHash, job.ID)
}
