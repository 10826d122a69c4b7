package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/render"
)

// ErrInputMissing is returned when the batch input directory does not exist.
var ErrInputMissing = errors.New("input directory does not exist")

// BatchOptions configures RunBatch.
type BatchOptions struct {
	InputDir  string
	OutputDir string
	Workers   int           // defaults to 4
	Format    render.Format // defaults to JSON
}

// FileResult reports the outcome for one input file.
type FileResult struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Title   string `json:"title"`
	Entries int    `json:"entries"`
	Source  string `json:"source,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Files     []FileResult `json:"files"`
}

// RunBatch writes one output record per supported file in InputDir. A file
// that cannot be read gets the empty summary and is counted as failed; it
// never stops the batch.
func RunBatch(ctx context.Context, w *Worker, opts BatchOptions) (BatchResult, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Format == "" {
		opts.Format = render.JSON
	}

	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BatchResult{}, fmt.Errorf("%w: %s", ErrInputMissing, opts.InputDir)
		}
		return BatchResult{}, fmt.Errorf("read input directory: %w", err)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("create output directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	outputs := outputNames(names, extensionFor(opts.Format))

	results := make([]FileResult, len(names))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = w.processFile(
				filepath.Join(opts.InputDir, name),
				filepath.Join(opts.OutputDir, outputs[i]),
				opts.Format,
			)
		}(i, name)
	}
	wg.Wait()

	res := BatchResult{Files: make([]FileResult, 0, len(names))}
	for _, r := range results {
		if r.Input == "" {
			continue // not started before cancellation
		}
		res.Files = append(res.Files, r)
		res.Processed++
		if r.Error != "" {
			res.Failed++
		}
	}
	return res, ctx.Err()
}

func (w *Worker) processFile(in, out string, format render.Format) FileResult {
	r := FileResult{Input: in, Output: out}
	log := w.log.With("file", in)

	summary := doctree.Empty()
	f, err := os.Open(in)
	if err == nil {
		a, aerr := w.Analyze(filepath.Base(in), f)
		f.Close()
		if aerr == nil {
			summary = a.Summary
			r.Source = a.Source
		}
		err = aerr
	}
	if err != nil {
		log.Error("document failed", "error", err)
		r.Error = err.Error()
	}

	if werr := writeSummary(out, summary, format); werr != nil {
		log.Error("write output failed", "output", out, "error", werr)
		if r.Error == "" {
			r.Error = werr.Error()
		}
	}
	r.Title = summary.Title
	r.Entries = len(summary.Outline)
	return r
}

func writeSummary(path string, s doctree.Summary, format render.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Write(f, s, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func extensionFor(f render.Format) string {
	switch f {
	case render.Markdown:
		return ".md"
	case render.HTML:
		return ".html"
	default:
		return ".json"
	}
}

// outputNames replaces each input extension with ext. Inputs sharing a
// stem ("a.pdf", "a.md") keep their source extension after the first.
func outputNames(names []string, ext string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		candidate := stem + ext
		if used[strings.ToLower(candidate)] {
			candidate = name + ext
		}
		used[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}
