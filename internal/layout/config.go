// Package layout infers a document title and heading outline from the
// positions, sizes and weights of its text.
package layout

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docoutline/internal/textnorm"
)

// Strictness selects how much larger than body text a heading must be.
type Strictness string

const (
	Strict  Strictness = "strict"
	Normal  Strictness = "normal"
	Lenient Strictness = "lenient"
)

// Config holds every threshold of the outline engine. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Line reconstruction.
	MergeGap   float64 `toml:"merge_gap" yaml:"merge_gap"`
	MergeMaxDY float64 `toml:"merge_max_dy" yaml:"merge_max_dy"`

	// Header/footer suppression.
	MarginRatio           float64 `toml:"margin_ratio" yaml:"margin_ratio"`
	HeaderFooterScanPages int     `toml:"header_footer_scan_pages" yaml:"header_footer_scan_pages"`

	// Title resolution.
	TitleTopRatio          float64  `toml:"title_top_ratio" yaml:"title_top_ratio"`
	TitleSizeTolerance     float64  `toml:"title_size_tolerance" yaml:"title_size_tolerance"`
	TitleGapFactor         float64  `toml:"title_gap_factor" yaml:"title_gap_factor"`
	TitleJoinGapFactor     float64  `toml:"title_join_gap_factor" yaml:"title_join_gap_factor"`
	MaxTitleRunes          int      `toml:"max_title_runes" yaml:"max_title_runes"`
	MinTitleRunesMultiPage int      `toml:"min_title_runes_multi_page" yaml:"min_title_runes_multi_page"`
	ShortTitleWords        int      `toml:"short_title_words" yaml:"short_title_words"`
	FilenameTitleFallback  bool     `toml:"filename_title_fallback" yaml:"filename_title_fallback"`
	GenericTitles          []string `toml:"generic_titles" yaml:"generic_titles"`
	TitleDenyWords         []string `toml:"title_deny_words" yaml:"title_deny_words"`
	TitleAllCapsWhitelist  []string `toml:"title_all_caps_whitelist" yaml:"title_all_caps_whitelist"`

	// Font statistics and levels.
	DefaultBodySize     float64 `toml:"default_body_size" yaml:"default_body_size"`
	MinHeadingSize      float64 `toml:"min_heading_size" yaml:"min_heading_size"`
	LevelMergeTolerance float64 `toml:"level_merge_tolerance" yaml:"level_merge_tolerance"`
	FormMaxSizes        int     `toml:"form_max_sizes" yaml:"form_max_sizes"`
	FormMaxBoldLines    int     `toml:"form_max_bold_lines" yaml:"form_max_bold_lines"`
	FormMaxPages        int     `toml:"form_max_pages" yaml:"form_max_pages"`

	// Heading classification.
	Strictness        Strictness `toml:"strictness" yaml:"strictness"`
	MinHeadingRunes   int        `toml:"min_heading_runes" yaml:"min_heading_runes"`
	MaxHeadingRunes   int        `toml:"max_heading_runes" yaml:"max_heading_runes"`
	LargeMargin       float64    `toml:"large_margin" yaml:"large_margin"`
	CenterTolerance   float64    `toml:"center_tolerance" yaml:"center_tolerance"`
	MaxCenteredWidth  float64    `toml:"max_centered_width" yaml:"max_centered_width"`
	LeftMarginRatio   float64    `toml:"left_margin_ratio" yaml:"left_margin_ratio"`
	ColumnWidthRatio  float64    `toml:"column_width_ratio" yaml:"column_width_ratio"`
	ColumnIndentRatio float64    `toml:"column_indent_ratio" yaml:"column_indent_ratio"`
	ProseWords        int        `toml:"prose_words" yaml:"prose_words"`
	LabelWords        int        `toml:"label_words" yaml:"label_words"`
	FormFieldWords    int        `toml:"form_field_words" yaml:"form_field_words"`
	SpacingFactor     float64    `toml:"spacing_factor" yaml:"spacing_factor"`
	HeadingDenylist   []string   `toml:"heading_denylist" yaml:"heading_denylist"`

	// Outline assembly.
	EchoPages         int `toml:"echo_pages" yaml:"echo_pages"`
	EchoMaxLengthDiff int `toml:"echo_max_length_diff" yaml:"echo_max_length_diff"`
	MinBookmarkRunes  int `toml:"min_bookmark_runes" yaml:"min_bookmark_runes"`
	MaxBookmarkRunes  int `toml:"max_bookmark_runes" yaml:"max_bookmark_runes"`

	Garble textnorm.GarbleConfig `toml:"garble" yaml:"garble"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		MergeGap:   5,
		MergeMaxDY: 1,

		MarginRatio:           0.10,
		HeaderFooterScanPages: 0,

		TitleTopRatio:          0.40,
		TitleSizeTolerance:     0.5,
		TitleGapFactor:         2.0,
		TitleJoinGapFactor:     0.5,
		MaxTitleRunes:          200,
		MinTitleRunesMultiPage: 5,
		ShortTitleWords:        5,
		FilenameTitleFallback:  false,
		GenericTitles: []string{
			"untitled", "document", "microsoft word", "title", "new document",
			"presentation", "slide 1", "page 1", "draft", "none", "null",
		},
		TitleDenyWords: []string{
			"rsvp", "invited", "invitation", "address", "hope to see you",
			"join us", "www", "street", "avenue", "suite",
		},
		TitleAllCapsWhitelist: []string{"TABLE OF CONTENTS", "CONTENTS", "INTRODUCTION", "SYLLABUS"},

		DefaultBodySize:     10,
		MinHeadingSize:      8,
		LevelMergeTolerance: 0.5,
		FormMaxSizes:        4,
		FormMaxBoldLines:    19,
		FormMaxPages:        9,

		Strictness:        Normal,
		MinHeadingRunes:   3,
		MaxHeadingRunes:   150,
		LargeMargin:       0.25,
		CenterTolerance:   0.25,
		MaxCenteredWidth:  0.9,
		LeftMarginRatio:   0.15,
		ColumnWidthRatio:  0.35,
		ColumnIndentRatio: 0.15,
		ProseWords:        8,
		LabelWords:        2,
		FormFieldWords:    6,
		SpacingFactor:     1.5,

		EchoPages:         2,
		EchoMaxLengthDiff: 40,
		MinBookmarkRunes:  5,
		MaxBookmarkRunes:  150,

		Garble: textnorm.DefaultGarbleConfig(),
	}
}

// SizeMargin is the fraction by which a heading must exceed body size.
func (c Config) SizeMargin() float64 {
	switch c.Strictness {
	case Strict:
		return 0.15
	case Lenient:
		return 0.05
	default:
		return 0.10
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	switch c.Strictness {
	case Strict, Normal, Lenient:
	default:
		return fmt.Errorf("unknown strictness %q", c.Strictness)
	}
	if c.MarginRatio <= 0 || c.MarginRatio >= 0.5 {
		return fmt.Errorf("margin_ratio must be in (0, 0.5), got %v", c.MarginRatio)
	}
	if c.TitleTopRatio <= 0 || c.TitleTopRatio > 1 {
		return fmt.Errorf("title_top_ratio must be in (0, 1], got %v", c.TitleTopRatio)
	}
	if c.MinHeadingRunes > c.MaxHeadingRunes {
		return fmt.Errorf("min_heading_runes %d exceeds max_heading_runes %d", c.MinHeadingRunes, c.MaxHeadingRunes)
	}
	if c.DefaultBodySize <= 0 {
		return fmt.Errorf("default_body_size must be positive")
	}
	return nil
}

func lowerSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[strings.ToLower(strings.TrimSpace(s))] = true
	}
	return m
}
