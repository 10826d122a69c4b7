package parser

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Markdown carries no
// layout, so headings are reported as the document's built-in outline.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Filename: filename}
	var hs headingStack

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := string(h.Text(src))
		// A leading H1 names the document.
		if n == root.FirstChild() && h.Level == 1 {
			doc.MetaTitle = title
		}
		hs.push(h.Level, title)
	}

	doc.Bookmarks = hs.out
	return doc, nil
}
