package layout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/textnorm"
)

var separatorRun = regexp.MustCompile(`^[-_=\s]{3,}$`)

// AssembleOutline turns accepted heading lines into the final outline:
// reading order, level lookup, title-echo removal, then a single pass that
// promotes over-deep levels and drops near duplicates.
func AssembleOutline(headings []Line, levels LevelMap, title string, cfg Config) []doctree.Entry {
	sorted := make([]Line, len(headings))
	copy(sorted, headings)
	sort.SliceStable(sorted, func(a, b int) bool {
		x, y := sorted[a], sorted[b]
		if x.Page != y.Page {
			return x.Page < y.Page
		}
		if x.Box.Y0 != y.Box.Y0 {
			return x.Box.Y0 < y.Box.Y0
		}
		return x.Order < y.Order
	})

	titleKey := textnorm.Key(title)
	out := make([]doctree.Entry, 0, len(sorted))
	// key|level -> page of the last kept entry, by mapped and by final level
	assignedPage := make(map[string]int)
	keptPage := make(map[string]int)
	last := doctree.Level(0)
	for _, h := range sorted {
		if echoesTitle(h, titleKey, cfg) {
			continue
		}
		key := textnorm.Key(h.Text)
		assigned := levels.Level(h.Size, h.Text)
		if seenNear(assignedPage, key+"|"+assigned.String(), h.Page) {
			continue
		}

		level := assigned
		if level > last+1 {
			level = last + 1
		}
		// Kept entries also stay unique per (text, final level), which a
		// promoted entry can collide with.
		if seenNear(keptPage, key+"|"+level.String(), h.Page) {
			continue
		}

		assignedPage[key+"|"+assigned.String()] = h.Page
		keptPage[key+"|"+level.String()] = h.Page
		last = level
		out = append(out, doctree.Entry{Level: level, Text: h.Text, Page: h.Page})
	}
	return out
}

func seenNear(pages map[string]int, key string, page int) bool {
	p, ok := pages[key]
	return ok && abs(page-p) <= 1
}

func echoesTitle(h Line, titleKey string, cfg Config) bool {
	if titleKey == "" {
		return false
	}
	key := textnorm.Key(h.Text)
	if key == titleKey {
		return true
	}
	if h.Page >= cfg.EchoPages || key == "" {
		return false
	}
	if abs(len([]rune(key))-len([]rune(titleKey))) > cfg.EchoMaxLengthDiff {
		return false
	}
	return strings.Contains(key, titleKey) || strings.Contains(titleKey, key)
}

// OutlineFromBookmarks converts a built-in outline into entries. It reports
// false when fewer than two usable entries remain, in which case the
// layout heuristics should run instead. Bookmark levels are kept as given.
func OutlineFromBookmarks(bookmarks []parser.Bookmark, title string, cfg Config) ([]doctree.Entry, bool) {
	out := filterBookmarks(bookmarks, title, cfg.MinBookmarkRunes, cfg.MaxBookmarkRunes)
	if len(out) <= 1 {
		return nil, false
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Page != out[b].Page {
			return out[a].Page < out[b].Page
		}
		return out[a].Level < out[b].Level
	})
	return out, true
}

// OutlineFromHeadings converts the headings of a page-less source
// (Markdown, HTML, DOCX) into entries, in source order. Every entry is on
// page 0, so there is nothing to sort by.
func OutlineFromHeadings(headings []parser.Bookmark, title string, cfg Config) []doctree.Entry {
	return filterBookmarks(headings, title, cfg.MinHeadingRunes, cfg.MaxHeadingRunes)
}

func filterBookmarks(bookmarks []parser.Bookmark, title string, minRunes, maxRunes int) []doctree.Entry {
	titleKey := textnorm.Key(title)
	out := make([]doctree.Entry, 0, len(bookmarks))
	for _, b := range bookmarks {
		raw := strings.TrimSpace(b.Text)
		text := textnorm.Normalize(raw)
		if separatorRun.MatchString(raw) {
			text = raw
		} else if n := textnorm.RuneLen(text); n < minRunes || n > maxRunes {
			continue
		}
		if text == "" || textnorm.IsDigits(text) {
			continue
		}
		if titleKey != "" && textnorm.Key(text) == titleKey {
			continue
		}

		page := 0
		if b.Page > 0 {
			page = b.Page - 1
		}
		out = append(out, doctree.Entry{
			Level: doctree.LevelFromDepth(b.Level),
			Text:  text,
			Page:  page,
		})
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
