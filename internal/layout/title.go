package layout

import (
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/textnorm"
)

// TitleSource names the strategy that produced a title.
type TitleSource string

const (
	TitleVisual    TitleSource = "visual"
	TitleMetadata  TitleSource = "metadata"
	TitleFirstLine TitleSource = "first-line"
	TitleFilename  TitleSource = "filename"
	TitleNone      TitleSource = "none"
)

var (
	fileExtension = regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?|pptx?|cdr|rtf|txt|odt|md|html?)$`)
	addressLike   = regexp.MustCompile(`(?i)\b\d{1,6}\s+([a-z]+\s+){0,3}(street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|lane|ln|way|suite|parkway|pkwy|court|ct|floor)\b|\b[A-Z]{2}\s+\d{5}(-\d{4})?\b`)
)

// TitleResolver picks a document title. It is built once per document.
type TitleResolver struct {
	cfg       Config
	generic   map[string]bool
	denyWords []string
	whitelist map[string]bool
}

func NewTitleResolver(cfg Config) *TitleResolver {
	deny := make([]string, 0, len(cfg.TitleDenyWords))
	for _, w := range cfg.TitleDenyWords {
		deny = append(deny, strings.ToLower(w))
	}
	white := make(map[string]bool, len(cfg.TitleAllCapsWhitelist))
	for _, w := range cfg.TitleAllCapsWhitelist {
		white[strings.ToUpper(w)] = true
	}
	return &TitleResolver{
		cfg:       cfg,
		generic:   lowerSet(cfg.GenericTitles),
		denyWords: deny,
		whitelist: white,
	}
}

// Resolve tries, in order: the most prominent text at the top of the first
// page, the metadata title, the first acceptable first-page line and,
// when enabled, the file name. An empty title is a valid result.
func (t *TitleResolver) Resolve(doc *parser.Document, lines []Line, stats FontStats, margins *MarginModel) (string, TitleSource) {
	singlePage := len(doc.Pages) <= 1
	first := firstPageLines(lines)

	if title := t.Accept(t.visual(first, stats), singlePage); title != "" {
		return title, TitleVisual
	}
	if !t.IsGeneric(doc.MetaTitle) {
		if title := t.Accept(textnorm.Normalize(doc.MetaTitle), singlePage); title != "" {
			return title, TitleMetadata
		}
	}
	for _, l := range first {
		if l.Garbled || margins.Suppressed(l.Text) {
			continue
		}
		if title := t.Accept(l.Text, singlePage); title != "" {
			return title, TitleFirstLine
		}
	}
	if t.cfg.FilenameTitleFallback && hasSubstantiveText(first) {
		if title := filenameTitle(doc.Filename); title != "" {
			return title, TitleFilename
		}
	}
	return "", TitleNone
}

func firstPageLines(lines []Line) []Line {
	var out []Line
	for _, l := range lines {
		if l.Page == 0 {
			out = append(out, l)
		}
	}
	return out
}

// visual collects the largest text in the top TitleTopRatio of the page.
// A line larger than the running maximum by more than TitleSizeTolerance
// restarts the span set; a line within tolerance joins it when its gap to
// the previous span is below TitleGapFactor times its size.
func (t *TitleResolver) visual(first []Line, stats FontStats) string {
	top := make([]Line, 0, len(first))
	for _, l := range first {
		if l.Size <= 0 || l.Garbled {
			continue // rotated or sizeless text never titles a page
		}
		if l.PageHeight > 0 && l.Box.Y0 < t.cfg.TitleTopRatio*l.PageHeight {
			top = append(top, l)
		}
	}
	sort.SliceStable(top, func(a, b int) bool { return top[a].Box.Y0 < top[b].Box.Y0 })

	var spans []Line
	maxSize := 0.0
	for _, l := range top {
		switch {
		case l.Size > maxSize+t.cfg.TitleSizeTolerance:
			spans = []Line{l}
			maxSize = l.Size
		case len(spans) > 0 && l.Size >= maxSize-t.cfg.TitleSizeTolerance:
			prev := spans[len(spans)-1]
			if l.Box.Y0-prev.Box.Y1 < t.cfg.TitleGapFactor*l.Size {
				spans = append(spans, l)
				maxSize = max(maxSize, l.Size)
			}
		}
	}
	if len(spans) == 0 {
		return ""
	}
	prominent := maxSize >= stats.BodySize*(1+t.cfg.SizeMargin())
	if !prominent && !spans[0].Bold {
		return ""
	}
	return textnorm.Normalize(t.joinReadingOrder(spans))
}

// joinReadingOrder concatenates spans top-to-bottom then left-to-right.
// Spans on one row closer than TitleJoinGapFactor times the size are
// glued without a space.
func (t *TitleResolver) joinReadingOrder(spans []Line) string {
	var rows [][]Line
	for _, s := range spans {
		n := len(rows)
		if n > 0 && math.Abs(s.Box.Y0-rows[n-1][0].Box.Y0) < 0.5*s.Size {
			rows[n-1] = append(rows[n-1], s)
			continue
		}
		rows = append(rows, []Line{s})
	}

	var b strings.Builder
	for _, row := range rows {
		sort.SliceStable(row, func(a, c int) bool { return row[a].Box.X0 < row[c].Box.X0 })
		for i, s := range row {
			glue := i > 0 && s.Box.X0-row[i-1].Box.X1 < t.cfg.TitleJoinGapFactor*s.Size
			if b.Len() > 0 && !glue {
				b.WriteByte(' ')
			}
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// IsGeneric reports placeholder metadata such as "Untitled", "Microsoft
// Word - Document1" or a bare file name.
func (t *TitleResolver) IsGeneric(meta string) bool {
	s := strings.ToLower(strings.TrimSpace(meta))
	if s == "" || t.generic[s] {
		return true
	}
	if strings.HasPrefix(s, "microsoft word - ") || strings.HasPrefix(s, "untitled") {
		return true
	}
	return fileExtension.MatchString(s)
}

// Accept returns the candidate if it is usable as a title, or "".
func (t *TitleResolver) Accept(s string, singlePage bool) string {
	s = strings.TrimSpace(s)
	if s == "" || !hasLetter(s) || textnorm.IsSeparator(s) || textnorm.HasURL(s) {
		return ""
	}
	if textnorm.RuneLen(s) > t.cfg.MaxTitleRunes || textnorm.IsGarbled(s, t.cfg.Garble) {
		return ""
	}
	if !singlePage {
		if textnorm.RuneLen(s) < t.cfg.MinTitleRunesMultiPage {
			return ""
		}
		return s
	}

	words := strings.Fields(s)
	short := len(words) <= t.cfg.ShortTitleWords
	lower := strings.ToLower(s)
	switch {
	case short && strings.HasSuffix(s, ":"):
		return ""
	case short && isAllCaps(s) && !t.whitelist[strings.ToUpper(s)]:
		return ""
	case short && containsAny(lower, t.denyWords):
		return ""
	case strings.IndexFunc(s, unicode.IsDigit) >= 0 && addressLike.MatchString(s):
		return ""
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		return ""
	}
	return s
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters > 1
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// hasSubstantiveText is false for first pages holding only a few short or
// decorative lines, where an empty title is more honest than a file name.
func hasSubstantiveText(first []Line) bool {
	if len(first) >= 5 {
		return true
	}
	for _, l := range first {
		if textnorm.RuneLen(l.Text) >= 10 && !textnorm.IsSeparator(l.Text) {
			return true
		}
	}
	return false
}

func filenameTitle(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	hadUnderscore := strings.Contains(stem, "_")
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	if len(words) == 0 {
		return ""
	}
	if hadUnderscore || isAllCaps(stem) {
		for i, w := range words {
			r := []rune(strings.ToLower(w))
			r[0] = unicode.ToUpper(r[0])
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}
