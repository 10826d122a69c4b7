package layout

import (
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/textnorm"
)

// Verdict is the outcome of a single classification rule.
type Verdict int

const (
	Undecided Verdict = iota
	Accept
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "undecided"
	}
}

// docContext is the per-document state shared by the rules. It is built
// fresh for every document and never shared between goroutines.
type docContext struct {
	cfg       Config
	stats     FontStats
	margins   *MarginModel
	pageCount int
	deny      map[string]bool
}

func newDocContext(cfg Config, stats FontStats, margins *MarginModel, pageCount int) *docContext {
	return &docContext{
		cfg:       cfg,
		stats:     stats,
		margins:   margins,
		pageCount: pageCount,
		deny:      lowerSet(cfg.HeadingDenylist),
	}
}

// Rule is one named step of the heading classifier.
type Rule struct {
	Name  string
	Check func(c *docContext, l Line) Verdict
}

// DefaultRules is the ordered rule table. The first rule that returns
// something other than Undecided decides; a line no rule accepts is not a
// heading.
var DefaultRules = []Rule{
	{"missing-geometry", ruleMissingGeometry},
	{"too-short", ruleTooShort},
	{"too-long", ruleTooLong},
	{"enumerator", ruleEnumerator},
	{"separator", ruleSeparator},
	{"url", ruleURL},
	{"garbled", ruleGarbled},
	{"denylist", ruleDenylist},
	{"header-footer", ruleHeaderFooter},
	{"form-field", ruleFormField},
	{"table-label", ruleTableLabel},
	{"numbered-bold", ruleNumberedBold},
	{"not-larger", ruleNotLarger},
	{"columnar", ruleColumnar},
	{"flyer", ruleFlyer},
	{"bold", ruleBold},
	{"large-structural", ruleLargeStructural},
	{"spaced", ruleSpaced},
}

// Classifier runs a rule table over lines.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns whether l is a heading and the name of the deciding
// rule ("" when no rule fired).
func (k *Classifier) Classify(c *docContext, l Line) (bool, string) {
	for _, r := range k.rules {
		switch r.Check(c, l) {
		case Accept:
			return true, r.Name
		case Reject:
			return false, r.Name
		}
	}
	return false, ""
}

func (c *docContext) bold(l Line) bool {
	return l.Bold || parser.IsBoldFont(l.Font)
}

func (c *docContext) atLeast(l Line, margin float64) bool {
	return l.Size >= c.stats.BodySize*(1+margin)
}

func (c *docContext) centered(l Line) bool {
	mid := (l.Box.X0 + l.Box.X1) / 2
	return math.Abs(mid-l.PageWidth/2) < c.cfg.CenterTolerance*l.PageWidth &&
		l.Box.Width() < c.cfg.MaxCenteredWidth*l.PageWidth
}

func (c *docContext) flushLeft(l Line) bool {
	return l.Box.X0 < c.cfg.LeftMarginRatio*l.PageWidth
}

func ruleMissingGeometry(_ *docContext, l Line) Verdict {
	if l.PageWidth <= 0 || l.PageHeight <= 0 || l.Size <= 0 || !l.Box.Valid() {
		return Reject
	}
	return Undecided
}

func ruleTooShort(c *docContext, l Line) Verdict {
	if textnorm.RuneLen(l.Text) < c.cfg.MinHeadingRunes {
		return Reject
	}
	return Undecided
}

func ruleTooLong(c *docContext, l Line) Verdict {
	if textnorm.RuneLen(l.Text) > c.cfg.MaxHeadingRunes {
		return Reject
	}
	return Undecided
}

func ruleEnumerator(_ *docContext, l Line) Verdict {
	if textnorm.IsEnumerator(l.Text) {
		return Reject
	}
	return Undecided
}

func ruleSeparator(_ *docContext, l Line) Verdict {
	if textnorm.IsSeparator(l.Text) {
		return Reject
	}
	return Undecided
}

func ruleURL(_ *docContext, l Line) Verdict {
	if textnorm.HasURL(l.Text) {
		return Reject
	}
	return Undecided
}

func ruleGarbled(_ *docContext, l Line) Verdict {
	if l.Garbled {
		return Reject
	}
	return Undecided
}

func ruleDenylist(c *docContext, l Line) Verdict {
	if c.deny[strings.ToLower(l.Text)] {
		return Reject
	}
	return Undecided
}

func ruleHeaderFooter(c *docContext, l Line) Verdict {
	if c.margins.Suppressed(l.Text) {
		return Reject
	}
	return Undecided
}

// ruleFormField rejects short numbered labels set at body size in a
// narrow left-hand column of form-like documents.
func ruleFormField(c *docContext, l Line) Verdict {
	if !c.stats.FormLike || !textnorm.IsNumbered(l.Text) {
		return Undecided
	}
	nearBody := math.Abs(l.Size-c.stats.BodySize) <= c.stats.BodySize*c.cfg.SizeMargin()
	if len(l.Words()) <= c.cfg.FormFieldWords &&
		l.Box.Width() < c.cfg.ColumnWidthRatio*l.PageWidth &&
		c.flushLeft(l) && nearBody {
		return Reject
	}
	return Undecided
}

func ruleTableLabel(c *docContext, l Line) Verdict {
	if len(l.Words()) <= c.cfg.LabelWords && !c.bold(l) && !c.atLeast(l, c.cfg.SizeMargin()) {
		return Reject
	}
	return Undecided
}

func ruleNumberedBold(c *docContext, l Line) Verdict {
	if textnorm.IsNumbered(l.Text) && c.bold(l) {
		return Accept
	}
	return Undecided
}

func ruleNotLarger(c *docContext, l Line) Verdict {
	if !c.atLeast(l, c.cfg.SizeMargin()) {
		return Reject
	}
	return Undecided
}

// ruleColumnar rejects sidebar and multi-column text.
func ruleColumnar(c *docContext, l Line) Verdict {
	if l.Box.Width() < c.cfg.ColumnWidthRatio*l.PageWidth &&
		l.Box.X0 > c.cfg.ColumnIndentRatio*l.PageWidth &&
		!c.bold(l) && !c.atLeast(l, c.cfg.LargeMargin) {
		return Reject
	}
	return Undecided
}

// ruleFlyer rejects banner text on single-page documents.
func ruleFlyer(c *docContext, l Line) Verdict {
	if c.pageCount == 1 && c.atLeast(l, c.cfg.LargeMargin) && c.centered(l) && !textnorm.IsNumbered(l.Text) {
		return Reject
	}
	return Undecided
}

func ruleBold(c *docContext, l Line) Verdict {
	if !c.bold(l) {
		return Undecided
	}
	prose := len(l.Words()) > c.cfg.ProseWords && c.flushLeft(l) && !c.atLeast(l, c.cfg.LargeMargin)
	if prose {
		return Undecided
	}
	return Accept
}

func ruleLargeStructural(c *docContext, l Line) Verdict {
	if c.atLeast(l, c.cfg.LargeMargin) && (c.centered(l) || c.flushLeft(l)) {
		return Accept
	}
	return Undecided
}

func ruleSpaced(c *docContext, l Line) Verdict {
	if l.TopMargin > c.cfg.SpacingFactor*c.stats.BodySize && textnorm.RuneLen(l.Text) > 5 {
		return Accept
	}
	return Undecided
}
