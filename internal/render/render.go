// Package render writes a document summary as JSON, Markdown or sanitized
// HTML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Format is an output encoding.
type Format string

const (
	JSON     Format = "json"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// ParseFormat accepts json, markdown (or md) and html; empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	case "html":
		return HTML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType is the HTTP media type for f.
func (f Format) ContentType() string {
	switch f {
	case Markdown:
		return "text/markdown; charset=utf-8"
	case HTML:
		return "text/html; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Write encodes s to w in format f.
func Write(w io.Writer, s doctree.Summary, f Format) error {
	switch f {
	case Markdown:
		_, err := io.WriteString(w, ToMarkdown(s))
		return err
	case HTML:
		out, err := ToHTML(s)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return WriteJSON(w, s)
	}
}

// WriteJSON writes the output record with four-space indentation and
// without escaping HTML characters, so non-ASCII text stays readable.
func WriteJSON(w io.Writer, s doctree.Summary) error {
	if s.Outline == nil {
		s.Outline = []doctree.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(s)
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`#`, `\#`, `<`, `\<`, `>`, `\>`, `|`, `\|`,
)

// ToMarkdown renders the title as a level-one heading and the outline as a
// nested list.
func ToMarkdown(s doctree.Summary) string {
	var b strings.Builder
	if s.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", mdEscaper.Replace(s.Title))
	}
	writeNodes(&b, doctree.Tree(s.Outline), 0)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*doctree.Node, depth int) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s- %s (page %d)\n", strings.Repeat("  ", depth), mdEscaper.Replace(n.Entry.Text), n.Entry.Page)
		writeNodes(b, n.Children, depth+1)
	}
}

var policy = bluemonday.UGCPolicy()

// ToHTML converts the Markdown rendering to HTML and sanitizes the result.
func ToHTML(s doctree.Summary) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ToMarkdown(s)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
