package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

#### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.MetaTitle != "Title" {
		t.Errorf("expected meta title %q, got %q", "Title", doc.MetaTitle)
	}

	want := []Bookmark{
		{Level: 1, Text: "Title"},
		{Level: 2, Text: "Section A"},
		{Level: 3, Text: "Subsection A1"}, // h4 directly under h2 nests one deeper
		{Level: 2, Text: "Section B"},
	}
	if len(doc.Bookmarks) != len(want) {
		t.Fatalf("expected %d bookmarks, got %d: %+v", len(want), len(doc.Bookmarks), doc.Bookmarks)
	}
	for i, w := range want {
		if doc.Bookmarks[i] != w {
			t.Errorf("bookmark[%d]: expected %+v, got %+v", i, w, doc.Bookmarks[i])
		}
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %d", len(doc.Bookmarks))
	}
	if doc.MetaTitle != "" {
		t.Errorf("expected empty meta title, got %q", doc.MetaTitle)
	}
}

func TestMarkdownParser_TitleOnlyFromLeadingH1(t *testing.T) {
	input := "Preamble.\n\n# Later Heading\n\n## Child\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.MetaTitle != "" {
		t.Errorf("expected no meta title when H1 is not first, got %q", doc.MetaTitle)
	}
	if len(doc.Bookmarks) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(doc.Bookmarks))
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Bookmarks) != 0 {
		t.Errorf("expected 0 bookmarks for empty input, got %d", len(doc.Bookmarks))
	}
	if doc.Filename != "empty.md" {
		t.Errorf("expected filename %q, got %q", "empty.md", doc.Filename)
	}
}
