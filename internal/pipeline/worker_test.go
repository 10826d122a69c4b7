package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/layout"
)

const fieldGuide = "# Field Guide\n\n## Woodland Birds\n\nSome text.\n\n### Owls of the North\n\n## Coastal Birds\n"

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	engine, err := layout.New(layout.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return NewWorker(engine, NewAnalysisStats(0), nil)
}

func checkFieldGuide(t *testing.T, s doctree.Summary) {
	t.Helper()
	if s.Title != "Field Guide" {
		t.Errorf("expected title %q, got %q", "Field Guide", s.Title)
	}
	want := []doctree.Entry{
		{Level: doctree.H2, Text: "Woodland Birds", Page: 0},
		{Level: doctree.H3, Text: "Owls of the North", Page: 0},
		{Level: doctree.H2, Text: "Coastal Birds", Page: 0},
	}
	if len(s.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(s.Outline), s.Outline)
	}
	for i := range want {
		if s.Outline[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], s.Outline[i])
		}
	}
}

func TestWorkerAnalyze(t *testing.T) {
	w := newTestWorker(t)
	a, err := w.Analyze("guide.md", strings.NewReader(fieldGuide))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Source != layout.SourceStructure {
		t.Errorf("expected source %q, got %q", layout.SourceStructure, a.Source)
	}
	checkFieldGuide(t, a.Summary)

	snap := w.stats.Snapshot()
	if snap.Count != 1 || snap.Structure != 1 {
		t.Errorf("expected one structure sample, got %+v", snap)
	}
}

func TestWorkerAnalyzeUnsupported(t *testing.T) {
	w := newTestWorker(t)
	if _, err := w.Analyze("notes.txt", strings.NewReader("plain")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if w.stats.Snapshot().Failed != 1 {
		t.Error("expected failure to be recorded")
	}
}

func TestWorkerProcess(t *testing.T) {
	w := newTestWorker(t)
	job := NewJob("guide.md", []byte(fieldGuide))
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "done" {
		t.Fatalf("expected completed job, got %q/%q %v", snap.Status, snap.Phase, snap.Errors)
	}
	if snap.Source != layout.SourceStructure {
		t.Errorf("expected source %q, got %q", layout.SourceStructure, snap.Source)
	}
	checkFieldGuide(t, *snap.Result)
}

func TestWorkerProcessBrokenPDF(t *testing.T) {
	w := newTestWorker(t)
	job := NewJob("broken.pdf", []byte("not a pdf"))
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "parsing" {
		t.Fatalf("expected parse failure, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Errors) == 0 {
		t.Error("expected an error message")
	}
	if snap.Result == nil || snap.Result.Title != "" || len(snap.Result.Outline) != 0 {
		t.Errorf("expected empty summary, got %+v", snap.Result)
	}
}

func TestWorkerProcessCancelled(t *testing.T) {
	w := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("guide.md", []byte(fieldGuide))
	w.Process(ctx, job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "cancelled" {
		t.Errorf("expected cancelled job, got %q/%q", snap.Status, snap.Phase)
	}
}

func TestWorkerProcessReusesIdenticalContent(t *testing.T) {
	w := newTestWorker(t)
	w.jobs = NewJobStore(time.Hour)

	first := NewJob("guide.md", []byte(fieldGuide))
	w.jobs.Put(first)
	w.Process(context.Background(), first)

	second := NewJob("copy.md", []byte(fieldGuide))
	w.jobs.Put(second)
	w.Process(context.Background(), second)

	snap := second.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "cached" {
		t.Fatalf("expected cached completion, got %q/%q", snap.Status, snap.Phase)
	}
	checkFieldGuide(t, *snap.Result)
	if w.stats.Snapshot().Count != 1 {
		t.Error("expected only the first job to be analyzed")
	}
}
