package layout

import (
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/textnorm"
)

// MarginModel holds text that recurs in the page margins.
type MarginModel struct {
	patterns []string // lower-cased
}

// DetectRepeatedMargins counts text whose vertical midpoint lies in the top
// or bottom MarginRatio of its page, once per page, over the first
// HeaderFooterScanPages pages (all when zero). Text seen on more than half
// of the scanned pages becomes a suppression pattern.
func DetectRepeatedMargins(lines []Line, pageCount int, cfg Config) *MarginModel {
	scanned := pageCount
	if cfg.HeaderFooterScanPages > 0 && cfg.HeaderFooterScanPages < scanned {
		scanned = cfg.HeaderFooterScanPages
	}
	m := &MarginModel{}
	if scanned < 2 {
		return m
	}

	counts := make(map[string]int)
	lastPage := make(map[string]int)
	for _, l := range lines {
		if l.Page >= scanned || !inMargin(l, cfg.MarginRatio) {
			continue
		}
		if l.Garbled || textnorm.IsDigits(l.Text) || textnorm.IsSeparator(l.Text) || textnorm.RuneLen(l.Text) < 3 {
			continue
		}
		key := strings.ToLower(l.Text)
		if p, ok := lastPage[key]; ok && p == l.Page {
			continue
		}
		lastPage[key] = l.Page
		counts[key]++
	}

	for text, n := range counts {
		if float64(n) > float64(scanned)/2 {
			m.patterns = append(m.patterns, text)
		}
	}
	sort.Strings(m.patterns)
	return m
}

func inMargin(l Line, ratio float64) bool {
	if l.PageHeight <= 0 {
		return false
	}
	mid := (l.Box.Y0 + l.Box.Y1) / 2
	return mid < ratio*l.PageHeight || mid > (1-ratio)*l.PageHeight
}

// Suppressed reports whether text contains any recurring margin text.
func (m *MarginModel) Suppressed(text string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range m.patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Patterns returns the suppression patterns in sorted order.
func (m *MarginModel) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}
