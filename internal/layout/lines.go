package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/textnorm"
)

// Line is a run of fragments judged visually contiguous.
type Line struct {
	Raw     string // concatenated fragment text
	Text    string // normalized
	Size    float64
	Font    string
	Bold    bool
	Box     parser.BBox
	Page    int
	Order   int // position within the document
	Garbled bool

	PageWidth  float64
	PageHeight float64
	TopMargin  float64 // gap to the previous line's bottom on the same page
}

// Words returns the whitespace-separated words of the normalized text.
func (l Line) Words() []string { return strings.Fields(l.Text) }

// RoundSize rounds a font size to a tenth of a point.
func RoundSize(s float64) float64 {
	return math.Round(s*10) / 10
}

// ReconstructLines merges adjacent fragments of each source row into
// logical lines. Two neighbours merge only if the horizontal gap is below
// MergeGap, rounded sizes and style match, and their tops differ by less
// than MergeMaxDY.
func ReconstructLines(doc *parser.Document, cfg Config) []Line {
	var lines []Line
	for _, page := range doc.Pages {
		start := len(lines)
		for _, row := range page.Rows {
			lines = appendRowLines(lines, row, page, cfg)
		}

		var prevBottom float64
		for i := start; i < len(lines); i++ {
			if i > start {
				lines[i].TopMargin = lines[i].Box.Y0 - prevBottom
			}
			prevBottom = lines[i].Box.Y1
		}
	}

	// Lines that normalize to nothing (page numbers, bullets) still count
	// for TopMargin above, but are dropped here.
	kept := lines[:0]
	for _, l := range lines {
		l.Text = textnorm.Normalize(l.Raw)
		if l.Text == "" {
			continue
		}
		l.Garbled = textnorm.IsGarbled(l.Raw, cfg.Garble) || textnorm.IsGarbled(l.Text, cfg.Garble)
		l.Order = len(kept)
		kept = append(kept, l)
	}
	return kept
}

func appendRowLines(lines []Line, row parser.Row, page parser.Page, cfg Config) []Line {
	frags := make([]parser.Fragment, len(row))
	copy(frags, row)
	sort.SliceStable(frags, func(a, b int) bool { return frags[a].Box.X0 < frags[b].Box.X0 })

	var cur *Line
	var text strings.Builder
	flush := func() {
		if cur != nil {
			cur.Raw = strings.Join(strings.Fields(text.String()), " ")
			lines = append(lines, *cur)
			cur = nil
			text.Reset()
		}
	}

	for _, f := range frags {
		if cur != nil && mergeable(cur, f, cfg) {
			text.WriteString(f.Text)
			cur.Box = cur.Box.Union(f.Box)
			continue
		}
		flush()
		cur = &Line{
			Size:       RoundSize(f.Size),
			Font:       f.Font,
			Bold:       f.Bold,
			Box:        f.Box,
			Page:       page.Index,
			PageWidth:  page.Width,
			PageHeight: page.Height,
		}
		text.WriteString(f.Text)
	}
	flush()
	return lines
}

func mergeable(cur *Line, f parser.Fragment, cfg Config) bool {
	return f.Box.X0-cur.Box.X1 < cfg.MergeGap &&
		RoundSize(f.Size) == cur.Size &&
		f.Bold == cur.Bold &&
		f.Font == cur.Font &&
		math.Abs(f.Box.Y0-cur.Box.Y0) < cfg.MergeMaxDY
}
