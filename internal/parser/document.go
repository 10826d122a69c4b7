package parser

import "strings"

// BBox is an axis-aligned box in page units, origin at the top-left corner.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

func (b BBox) Width() float64  { return b.X1 - b.X0 }
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Valid reports whether the box has usable, non-inverted geometry.
func (b BBox) Valid() bool {
	return b.X1 >= b.X0 && b.Y1 >= b.Y0 && (b.X1 > b.X0 || b.Y1 > b.Y0)
}

// Union returns the smallest box covering both.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// Fragment is the smallest positioned text run read from a page.
type Fragment struct {
	Text string
	Size float64 // points
	Font string
	Bold bool
	Box  BBox
	Page int // 0-based
}

// Row is the source's own grouping of fragments sharing a baseline.
type Row []Fragment

// Page holds the rows of one page together with its dimensions.
type Page struct {
	Index  int
	Width  float64
	Height float64
	Rows   []Row
}

// Bookmark is one entry of a document's built-in outline.
type Bookmark struct {
	Level int    // 1 = top level
	Text  string
	Page  int // 1-indexed; 0 when the entry has no target
}

// Document is everything the outline engine reads from a source file.
type Document struct {
	Filename  string
	Pages     []Page
	MetaTitle string
	Bookmarks []Bookmark
}

// FragmentCount returns the number of fragments across all pages.
func (d *Document) FragmentCount() int {
	n := 0
	for _, p := range d.Pages {
		for _, r := range p.Rows {
			n += len(r)
		}
	}
	return n
}

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demibold", "extrabold", "ultrabold"}

// IsBoldFont reports whether a font name carries a bold weight marker,
// e.g. "TimesNewRoman,Bold" or "ABCDEF+Helvetica-Black".
func IsBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
