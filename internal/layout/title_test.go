package layout

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/parser"
)

func line(text string, size float64, bold bool, x0, y0, x1 float64, pg int) Line {
	return Line{
		Raw:        text,
		Text:       text,
		Size:       size,
		Bold:       bold,
		Box:        parser.BBox{X0: x0, Y0: y0, X1: x1, Y1: y0 + size},
		Page:       pg,
		PageWidth:  letterWidth,
		PageHeight: letterHeight,
	}
}

func pages(n int) []parser.Page {
	out := make([]parser.Page, n)
	for i := range out {
		out[i] = parser.Page{Index: i, Width: letterWidth, Height: letterHeight}
	}
	return out
}

var bodyStats = FontStats{BodySize: 11}

func TestResolveTitleVisualSpans(t *testing.T) {
	lines := []Line{
		line("Company Confidential", 9, false, 72, 30, 200, 0),
		line("Quarterly", 24, false, 150, 80, 300, 0),
		line("Review", 24, false, 320, 80, 420, 0),
		line("2024 Edition", 24, false, 200, 110, 380, 0),
		line("A smaller subtitle", 14, false, 200, 150, 380, 0),
		line("Body text starts here and continues", 11, false, 72, 200, 540, 0),
	}
	doc := &parser.Document{Pages: pages(2), MetaTitle: "Something Else"}

	title, src := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if title != "Quarterly Review 2024 Edition" {
		t.Errorf("expected joined visual title, got %q", title)
	}
	if src != TitleVisual {
		t.Errorf("expected source visual, got %s", src)
	}
}

func TestResolveTitleGluesAdjacentSpans(t *testing.T) {
	lines := []Line{
		line("Intro", 24, true, 100, 80, 160, 0),
		line("duction", 24, false, 161, 80, 250, 0),
	}
	doc := &parser.Document{Pages: pages(3)}
	title, _ := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if title != "Introduction" {
		t.Errorf("expected Introduction, got %q", title)
	}
}

func TestResolveTitleUntitledMetadataFallsThrough(t *testing.T) {
	lines := []Line{
		line("Project charter for the new office", 11, false, 72, 80, 400, 0),
		line("Some body text goes here for a while", 11, false, 72, 100, 400, 0),
	}
	doc := &parser.Document{Pages: pages(2), MetaTitle: "Untitled"}

	title, src := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if src != TitleFirstLine {
		t.Errorf("expected first-line source, got %s", src)
	}
	if title != "Project charter for the new office" {
		t.Errorf("expected first line title, got %q", title)
	}
}

func TestResolveTitleMetadata(t *testing.T) {
	lines := []Line{line("plain body text everywhere", 11, false, 72, 80, 400, 0)}
	doc := &parser.Document{Pages: pages(2), MetaTitle: "  Design  Guidelines "}

	title, src := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if title != "Design Guidelines" || src != TitleMetadata {
		t.Errorf("expected metadata title, got %q from %s", title, src)
	}
}

func TestResolveTitleSkipsRunningHeader(t *testing.T) {
	lines := []Line{
		line("Acme Corp Handbook", 11, false, 72, 20, 300, 0),
		line("Welcome to the team", 11, false, 72, 100, 300, 0),
	}
	margins := &MarginModel{patterns: []string{"acme corp handbook"}}
	doc := &parser.Document{Pages: pages(4)}

	title, _ := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, margins)
	if title != "Welcome to the team" {
		t.Errorf("expected running header to be skipped, got %q", title)
	}
}

func TestResolveTitleEmptyIsValid(t *testing.T) {
	lines := []Line{
		line("NAME:", 11, false, 72, 80, 120, 0),
		line("DATE:", 11, false, 72, 100, 120, 0),
		line("SIGNATURE LINE", 11, false, 72, 120, 200, 0),
		line("PHONE NUMBER", 11, false, 72, 140, 200, 0),
		line("EMAIL ADDRESS", 11, false, 72, 160, 200, 0),
	}
	doc := &parser.Document{Filename: "intake_form.pdf", Pages: pages(1)}

	title, src := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if title != "" || src != TitleNone {
		t.Errorf("expected empty title, got %q from %s", title, src)
	}

	cfg := DefaultConfig()
	cfg.FilenameTitleFallback = true
	title, src = NewTitleResolver(cfg).Resolve(doc, lines, bodyStats, nil)
	if title != "Intake Form" || src != TitleFilename {
		t.Errorf("expected filename title, got %q from %s", title, src)
	}
}

func TestTitleAccept(t *testing.T) {
	r := NewTitleResolver(DefaultConfig())
	tests := []struct {
		in         string
		singlePage bool
		want       string
	}{
		{"Annual Report", true, "Annual Report"},
		{"RSVP by Friday", true, ""},
		{"Name:", true, ""},
		{"WELCOME PARTY", true, ""},
		{"CONTENTS", true, "CONTENTS"},
		{"123 Main Street", true, ""},
		{"(draft copy)", true, ""},
		{"www.example.com", true, ""},
		{"2024", true, ""},
		{"-----", false, ""},
		{"Memo", false, ""},
		{"Memorandum", false, "Memorandum"},
		{"WELCOME PARTY", false, "WELCOME PARTY"},
	}
	for _, tt := range tests {
		if got := r.Accept(tt.in, tt.singlePage); got != tt.want {
			t.Errorf("Accept(%q, %v): expected %q, got %q", tt.in, tt.singlePage, tt.want, got)
		}
	}
}

func TestIsGenericTitle(t *testing.T) {
	r := NewTitleResolver(DefaultConfig())
	for _, s := range []string{"", "Untitled", "untitled-3", "Microsoft Word - Document1", "report.pdf", "Scan.DOCX", "Presentation"} {
		if !r.IsGeneric(s) {
			t.Errorf("expected %q to be generic", s)
		}
	}
	for _, s := range []string{"Quarterly Review", "Document Retention Policy"} {
		if r.IsGeneric(s) {
			t.Errorf("expected %q to be kept", s)
		}
	}
}

func TestFilenameTitle(t *testing.T) {
	tests := map[string]string{
		"/tmp/quarterly_sales_REPORT.pdf": "Quarterly Sales Report",
		"design-notes.pdf":                "design notes",
		"LEASE.pdf":                       "Lease",
		".pdf":                            "",
	}
	for in, want := range tests {
		if got := filenameTitle(in); got != want {
			t.Errorf("filenameTitle(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestResolveTitleIgnoresSizelessLines(t *testing.T) {
	lines := []Line{
		line("Sidebar rotated label", 0, false, 20, 40, 40, 0),
		line("Margin note", -12, false, 560, 60, 590, 0),
		line("Quarterly Operations Review", 24, false, 150, 80, 460, 0),
		line("Body text starts here and continues", 11, false, 72, 200, 540, 0),
	}
	doc := &parser.Document{Pages: pages(2)}

	title, src := NewTitleResolver(DefaultConfig()).Resolve(doc, lines, bodyStats, nil)
	if title != "Quarterly Operations Review" || src != TitleVisual {
		t.Errorf("expected visual title, got %q from %s", title, src)
	}
}
