package layout

import (
	"sort"
	"unicode"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/textnorm"
)

// FontStats are document-wide typography statistics.
type FontStats struct {
	BodySize  float64
	Histogram map[float64]int // rounded size -> non-space rune count
	BoldLines int
	FormLike  bool
}

// ComputeFontStats builds the size histogram and picks the body size: the
// most frequent size in [9,20), else in [8,30), else overall, else
// DefaultBodySize. Ties go to the higher count, then the smaller size.
func ComputeFontStats(lines []Line, pageCount int, cfg Config) FontStats {
	st := FontStats{Histogram: make(map[float64]int)}
	for _, l := range lines {
		n := 0
		for _, r := range l.Text {
			if !unicode.IsSpace(r) {
				n++
			}
		}
		st.Histogram[l.Size] += n
		if l.Bold {
			st.BoldLines++
		}
	}

	st.BodySize = cfg.DefaultBodySize
	for _, rng := range [][2]float64{{9, 20}, {8, 30}, {0, 1e9}} {
		if size, ok := mostFrequent(st.Histogram, rng[0], rng[1]); ok {
			st.BodySize = size
			break
		}
	}

	st.FormLike = len(lines) > 0 &&
		len(st.Histogram) <= cfg.FormMaxSizes &&
		st.BoldLines <= cfg.FormMaxBoldLines &&
		pageCount <= cfg.FormMaxPages
	return st
}

func mostFrequent(hist map[float64]int, lo, hi float64) (float64, bool) {
	sizes := make([]float64, 0, len(hist))
	for s := range hist {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)

	best, bestCount := 0.0, 0
	for _, s := range sizes {
		if s < lo || s >= hi {
			continue
		}
		if c := hist[s]; c > bestCount {
			best, bestCount = s, c
		}
	}
	return best, bestCount > 0
}

// LevelMap assigns heading levels to font sizes, largest first.
type LevelMap struct {
	sizes     []float64 // descending; sizes[i] is level i+1
	tolerance float64
}

// BuildLevelMap keeps the distinct sizes strictly above body and at least
// MinHeadingSize, in descending order. A size within LevelMergeTolerance of
// the previously kept one shares its level. At most four levels are kept.
func BuildLevelMap(headingSizes []float64, body float64, cfg Config) LevelMap {
	candidates := make([]float64, 0, len(headingSizes))
	for _, s := range headingSizes {
		if s > body && s >= cfg.MinHeadingSize {
			candidates = append(candidates, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(candidates)))

	m := LevelMap{tolerance: cfg.LevelMergeTolerance}
	for _, s := range candidates {
		if n := len(m.sizes); n > 0 && m.sizes[n-1]-s <= m.tolerance {
			continue
		}
		m.sizes = append(m.sizes, s)
		if len(m.sizes) == int(doctree.MaxLevel) {
			break
		}
	}
	return m
}

// Sizes returns the mapped sizes, largest first.
func (m LevelMap) Sizes() []float64 {
	return append([]float64(nil), m.sizes...)
}

// Level maps a heading to its level: the first mapped size s with
// size >= s - tolerance, else the lowest mapped level. With no mapped sizes
// the section numbering depth decides ("2.1 Scope" is H2), else H1.
func (m LevelMap) Level(size float64, text string) doctree.Level {
	if len(m.sizes) == 0 {
		if d := textnorm.NumberingDepth(text); d > 0 {
			return doctree.LevelFromDepth(d)
		}
		return doctree.H1
	}
	for i, s := range m.sizes {
		if size >= s-m.tolerance {
			return doctree.Level(i + 1)
		}
	}
	return doctree.Level(len(m.sizes))
}
