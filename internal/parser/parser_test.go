package parser

import (
	"errors"
	"math"
	"strings"
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("notes.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := ForFile("REPORT.PDF"); err != nil {
		t.Errorf("expected pdf parser for upper-case extension, got %v", err)
	}
}

func TestFormats_Sorted(t *testing.T) {
	got := strings.Join(Formats(), ",")
	want := "docx,htm,html,markdown,md,pdf"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestIsBoldFont(t *testing.T) {
	cases := map[string]bool{
		"ABCDEF+Helvetica-Bold":  true,
		"TimesNewRoman,Bold":     true,
		"Arial-Black":            true,
		"SourceSans-Semibold":    true,
		"Helvetica":              false,
		"TimesNewRoman,Italic":   false,
		"":                       false,
	}
	for name, want := range cases {
		if got := IsBoldFont(name); got != want {
			t.Errorf("IsBoldFont(%q): expected %v, got %v", name, want, got)
		}
	}
}

func TestHTMLParser_TitleAndHeadings(t *testing.T) {
	input := `<html><head><title>Field Guide</title></head><body>
<nav><h2>Site menu</h2></nav>
<h1>Birds</h1><p>text</p>
<h3>Owls</h3>
<h2>Habitats</h2>
<script>var h1 = "<h1>nope</h1>";</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.MetaTitle != "Field Guide" {
		t.Errorf("expected meta title %q, got %q", "Field Guide", doc.MetaTitle)
	}
	want := []Bookmark{
		{Level: 1, Text: "Birds"},
		{Level: 2, Text: "Owls"},
		{Level: 2, Text: "Habitats"},
	}
	if len(doc.Bookmarks) != len(want) {
		t.Fatalf("expected %d bookmarks, got %+v", len(want), doc.Bookmarks)
	}
	for i, w := range want {
		if doc.Bookmarks[i] != w {
			t.Errorf("bookmark[%d]: expected %+v, got %+v", i, w, doc.Bookmarks[i])
		}
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	cases := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"Heading 4": 4,
		"Title":     0,
		"Normal":    0,
		"HeadingX":  0,
	}
	for style, want := range cases {
		if got := docxHeadingLevel(style); got != want {
			t.Errorf("docxHeadingLevel(%q): expected %d, got %d", style, want, got)
		}
	}
}

func TestCoalesceGlyphs_JoinsSameFontRuns(t *testing.T) {
	glyphs := []pdflib.Text{
		{Font: "Helvetica-Bold", FontSize: 14, X: 72, Y: 700, W: 8, S: "I"},
		{Font: "Helvetica-Bold", FontSize: 14, X: 80, Y: 700, W: 8, S: "n"},
		{Font: "Helvetica-Bold", FontSize: 14, X: 88, Y: 700, W: 4, S: " "},
		{Font: "Helvetica-Bold", FontSize: 14, X: 92, Y: 700, W: 8, S: "a"},
		{Font: "Helvetica", FontSize: 10, X: 300, Y: 700, W: 6, S: "x"},
	}
	row := coalesceGlyphs(glyphs, 2, 792)
	if len(row) != 2 {
		t.Fatalf("expected 2 fragments, got %d: %+v", len(row), row)
	}
	first := row[0]
	if first.Text != "In a" {
		t.Errorf("expected text %q, got %q", "In a", first.Text)
	}
	if !first.Bold {
		t.Error("expected bold fragment")
	}
	if first.Page != 2 {
		t.Errorf("expected page 2, got %d", first.Page)
	}
	wantY0 := 792 - (700 + 0.8*14)
	if !near(first.Box.Y0, wantY0) || !near(first.Box.Y1, wantY0+14) {
		t.Errorf("expected y range [%v,%v], got [%v,%v]", wantY0, wantY0+14, first.Box.Y0, first.Box.Y1)
	}
	if first.Box.X0 != 72 || first.Box.X1 != 100 {
		t.Errorf("expected x range [72,100], got [%v,%v]", first.Box.X0, first.Box.X1)
	}
}

func TestCoalesceGlyphs_LargeGapSplits(t *testing.T) {
	glyphs := []pdflib.Text{
		{Font: "F1", FontSize: 10, X: 10, Y: 500, W: 5, S: "a"},
		{Font: "F1", FontSize: 10, X: 100, Y: 500, W: 5, S: "b"},
	}
	row := coalesceGlyphs(glyphs, 0, 792)
	if len(row) != 2 {
		t.Fatalf("expected 2 fragments across a wide gap, got %d", len(row))
	}
}

func TestBBox_Union(t *testing.T) {
	a := BBox{X0: 10, Y0: 10, X1: 20, Y1: 20}
	b := BBox{X0: 5, Y0: 15, X1: 30, Y1: 18}
	u := a.Union(b)
	want := BBox{X0: 5, Y0: 10, X1: 30, Y1: 20}
	if u != want {
		t.Errorf("expected %+v, got %+v", want, u)
	}
	if (BBox{}).Valid() {
		t.Error("expected zero box to be invalid")
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
