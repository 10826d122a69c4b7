package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupported is returned by ForFile for extensions no parser handles.
var ErrUnsupported = errors.New("unsupported file extension")

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Formats returns the supported extensions without the leading dot, sorted.
func Formats() []string {
	out := make([]string, 0, len(SupportedExtensions))
	for ext := range SupportedExtensions {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(out)
	return out
}

// headingStack turns a stream of (depth, text) pairs into bookmarks whose
// levels never jump more than one below the enclosing heading.
type headingStack struct {
	levels []int
	out    []Bookmark
}

func (s *headingStack) push(depth int, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}
	for len(s.levels) > 0 && s.levels[len(s.levels)-1] >= depth {
		s.levels = s.levels[:len(s.levels)-1]
	}
	s.levels = append(s.levels, depth)
	s.out = append(s.out, Bookmark{Level: len(s.levels), Text: text})
}
