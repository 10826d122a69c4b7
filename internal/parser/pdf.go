package parser

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	defaultPageWidth  = 612.0 // US Letter
	defaultPageHeight = 792.0

	// Glyph-to-span coalescing, as multiples of the font size.
	spaceGapFactor = 0.25
	spanGapFactor  = 1.5

	// Share of the font size above the baseline.
	ascentRatio = 0.8
)

// PDFParser reads positioned text, page sizes, the Info title and the
// built-in outline of a PDF.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReaderAt+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc, outline, err := readLayout(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf layout: %w", err)
	}
	doc.Filename = filename

	// pdfcpu resolves bookmark destinations to pages; ledongthuc only has titles.
	if bms, err := readBookmarks(tmpPath); err == nil && len(bms) > 0 {
		doc.Bookmarks = bms
	} else {
		doc.Bookmarks = outline
	}
	return doc, nil
}

func readLayout(path string) (doc *Document, outline []Bookmark, err error) {
	// The library panics on some malformed files and content streams.
	defer func() {
		if r := recover(); r != nil {
			doc, outline, err = nil, nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc = &Document{MetaTitle: infoTitle(reader)}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		pg := Page{Index: i - 1, Width: defaultPageWidth, Height: defaultPageHeight}
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, pg)
			continue
		}
		pg.Width, pg.Height = pageSize(page)

		rows, err := page.GetTextByRow()
		if err != nil {
			doc.Pages = append(doc.Pages, pg)
			continue
		}
		for _, row := range rows {
			if frags := coalesceGlyphs(row.Content, pg.Index, pg.Height); len(frags) > 0 {
				pg.Rows = append(pg.Rows, frags)
			}
		}
		sort.SliceStable(pg.Rows, func(a, b int) bool {
			return pg.Rows[a][0].Box.Y0 < pg.Rows[b][0].Box.Y0
		})
		doc.Pages = append(doc.Pages, pg)
	}

	flattenOutline(reader.Outline().Child, 1, &outline)
	return doc, outline, nil
}

func infoTitle(r *pdflib.Reader) string {
	return strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text())
}

// pageSize reads the MediaBox, following the Parent chain for inherited boxes.
func pageSize(page pdflib.Page) (float64, float64) {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
	}
	return defaultPageWidth, defaultPageHeight
}

// coalesceGlyphs joins the per-glyph runs ledongthuc emits into spans of a
// single font and size, converting to top-left coordinates.
func coalesceGlyphs(texts []pdflib.Text, pageIdx int, height float64) Row {
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

	var out Row
	var cur *Fragment
	pendingSpace := false

	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimRight(cur.Text, " ")
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" {
			pendingSpace = cur != nil
			continue
		}
		y0 := height - (t.Y + ascentRatio*t.FontSize)
		box := BBox{X0: t.X, Y0: y0, X1: t.X + t.W, Y1: y0 + t.FontSize}

		if cur != nil && cur.Font == t.Font && cur.Size == t.FontSize &&
			box.X0-cur.Box.X1 < spanGapFactor*t.FontSize {
			gap := box.X0 - cur.Box.X1
			if (pendingSpace || gap > spaceGapFactor*t.FontSize) && !strings.HasSuffix(cur.Text, " ") {
				cur.Text += " "
			}
			cur.Text += t.S
			cur.Box = cur.Box.Union(box)
		} else {
			flush()
			cur = &Fragment{
				Text: t.S,
				Size: t.FontSize,
				Font: t.Font,
				Bold: IsBoldFont(t.Font),
				Box:  box,
				Page: pageIdx,
			}
		}
		pendingSpace = false
	}
	flush()
	return out
}

func flattenOutline(items []pdflib.Outline, level int, out *[]Bookmark) {
	for _, o := range items {
		*out = append(*out, Bookmark{Level: level, Text: o.Title})
		flattenOutline(o.Child, level+1, out)
	}
}

func readBookmarks(path string) ([]Bookmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	bms, err := pdfcpu.Bookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu bookmarks: %w", err)
	}
	var out []Bookmark
	flattenBookmarks(bms, 1, &out)
	return out, nil
}

func flattenBookmarks(items []pdfcpu.Bookmark, level int, out *[]Bookmark) {
	for _, b := range items {
		*out = append(*out, Bookmark{Level: level, Text: b.Title, Page: b.PageFrom})
		flattenBookmarks(b.Kids, level+1, out)
	}
}
