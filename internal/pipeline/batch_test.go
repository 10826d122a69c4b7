package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/render"
)

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readSummary(t *testing.T, path string) doctree.Summary {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var s doctree.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return s
}

func TestRunBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "out")
	writeInput(t, in, "guide.md", fieldGuide)
	writeInput(t, in, "broken.pdf", "not a pdf")
	writeInput(t, in, "notes.txt", "skipped")

	res, err := RunBatch(context.Background(), newTestWorker(t), BatchOptions{InputDir: in, OutputDir: out, Workers: 2})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if res.Processed != 2 || res.Failed != 1 {
		t.Errorf("expected 2 processed and 1 failed, got %d and %d", res.Processed, res.Failed)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(res.Files))
	}
	// Results follow sorted input order.
	if filepath.Base(res.Files[0].Input) != "broken.pdf" || res.Files[0].Error == "" {
		t.Errorf("expected broken.pdf to fail first, got %+v", res.Files[0])
	}
	if res.Files[1].Source != "structure" || res.Files[1].Entries != 3 {
		t.Errorf("expected structure outline for guide.md, got %+v", res.Files[1])
	}

	checkFieldGuide(t, readSummary(t, filepath.Join(out, "guide.json")))

	data, err := os.ReadFile(filepath.Join(out, "broken.json"))
	if err != nil {
		t.Fatalf("expected output for failed file: %v", err)
	}
	if !strings.Contains(string(data), `"outline": []`) || !strings.Contains(string(data), `"title": ""`) {
		t.Errorf("expected empty summary, got %s", data)
	}
	if _, err := os.Stat(filepath.Join(out, "notes.json")); !os.IsNotExist(err) {
		t.Error("expected unsupported files to be skipped")
	}
}

func TestRunBatchMarkdownFormat(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInput(t, in, "guide.md", fieldGuide)

	if _, err := RunBatch(context.Background(), newTestWorker(t), BatchOptions{InputDir: in, OutputDir: out, Format: render.Markdown}); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "guide.md"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Field Guide\n") {
		t.Errorf("expected markdown title heading, got %q", data)
	}
}

func TestRunBatchMissingInput(t *testing.T) {
	_, err := RunBatch(context.Background(), newTestWorker(t), BatchOptions{
		InputDir:  filepath.Join(t.TempDir(), "absent"),
		OutputDir: t.TempDir(),
	})
	if !errors.Is(err, ErrInputMissing) {
		t.Errorf("expected ErrInputMissing, got %v", err)
	}
}

func TestRunBatchEmptyInput(t *testing.T) {
	res, err := RunBatch(context.Background(), newTestWorker(t), BatchOptions{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if res.Processed != 0 || len(res.Files) != 0 {
		t.Errorf("expected nothing processed, got %+v", res)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "guide.md", fieldGuide)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunBatch(ctx, newTestWorker(t), BatchOptions{InputDir: in, OutputDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res.Processed != 0 {
		t.Errorf("expected no files processed, got %d", res.Processed)
	}
}

func TestOutputNames(t *testing.T) {
	got := outputNames([]string{"a.md", "a.pdf", "b.PDF"}, ".json")
	want := []string{"a.json", "a.pdf.json", "b.json"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
