package layout

import (
	"log/slog"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/parser"
)

// Outline sources reported in Analysis.Source.
const (
	SourceBookmarks = "bookmarks"
	SourceLayout    = "layout"
	SourceStructure = "structure"
)

// Analysis is a Summary plus the intermediate facts that produced it.
type Analysis struct {
	Summary     doctree.Summary
	TitleSource TitleSource
	Source      string
	BodySize    float64
	LevelSizes  []float64
	Margins     []string
	Lines       int
	RuleHits    map[string]int
}

// Engine infers outlines. It holds only read-only configuration and is
// safe for concurrent use.
type Engine struct {
	cfg        Config
	titles     *TitleResolver
	classifier *Classifier
	log        *slog.Logger
}

func New(cfg Config, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		titles:     NewTitleResolver(cfg),
		classifier: NewClassifier(DefaultRules),
		log:        log,
	}, nil
}

// Config returns the engine's thresholds.
func (e *Engine) Config() Config { return e.cfg }

// Analyze returns the title and outline of doc.
func (e *Engine) Analyze(doc *parser.Document) doctree.Summary {
	return e.AnalyzeDetailed(doc).Summary
}

func (e *Engine) AnalyzeDetailed(doc *parser.Document) Analysis {
	a := Analysis{Summary: doctree.Empty(), TitleSource: TitleNone, RuleHits: map[string]int{}}
	if doc == nil {
		return a
	}
	log := e.log.With("file", doc.Filename)

	pageCount := len(doc.Pages)
	lines := ReconstructLines(doc, e.cfg)
	stats := ComputeFontStats(lines, pageCount, e.cfg)
	margins := DetectRepeatedMargins(lines, pageCount, e.cfg)
	title, src := e.titles.Resolve(doc, lines, stats, margins)

	a.Summary.Title = title
	a.TitleSource = src
	a.BodySize = stats.BodySize
	a.Margins = margins.Patterns()
	a.Lines = len(lines)
	log.Debug("document stats",
		"pages", pageCount,
		"lines", len(lines),
		"body_size", stats.BodySize,
		"form_like", stats.FormLike,
		"margin_patterns", len(a.Margins),
		"title_source", string(src))

	if pageCount == 0 {
		a.Summary.Outline = OutlineFromHeadings(doc.Bookmarks, title, e.cfg)
		a.Source = SourceStructure
		log.Debug("outline from document structure", "entries", len(a.Summary.Outline))
		return a
	}

	if entries, ok := OutlineFromBookmarks(doc.Bookmarks, title, e.cfg); ok {
		a.Summary.Outline = entries
		a.Source = SourceBookmarks
		log.Debug("outline from bookmarks", "entries", len(entries))
		return a
	}

	dc := newDocContext(e.cfg, stats, margins, pageCount)
	var headings []Line
	var sizes []float64
	for _, l := range lines {
		ok, rule := e.classifier.Classify(dc, l)
		if rule != "" {
			a.RuleHits[rule]++
		}
		if ok {
			headings = append(headings, l)
			sizes = append(sizes, l.Size)
		}
	}

	levels := BuildLevelMap(sizes, stats.BodySize, e.cfg)
	a.LevelSizes = levels.Sizes()
	a.Summary.Outline = AssembleOutline(headings, levels, title, e.cfg)
	a.Source = SourceLayout
	log.Debug("outline from layout",
		"candidates", len(headings),
		"entries", len(a.Summary.Outline),
		"levels", a.LevelSizes,
		"rules", a.RuleHits)
	return a
}
