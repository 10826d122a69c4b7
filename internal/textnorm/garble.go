package textnorm

import (
	"strings"
	"unicode"
)

// GarbleConfig holds the thresholds of IsGarbled.
type GarbleConfig struct {
	MinAlnumRatio     float64 `toml:"min_alnum_ratio" yaml:"min_alnum_ratio"`
	RepeatedWordShare float64 `toml:"repeated_word_share" yaml:"repeated_word_share"`
	ShortWordMinWords int     `toml:"short_word_min_words" yaml:"short_word_min_words"`
	ShortWordShare    float64 `toml:"short_word_share" yaml:"short_word_share"`
	MaxRepeatRun      int     `toml:"max_repeat_run" yaml:"max_repeat_run"`
	SubstringCoverage float64 `toml:"substring_coverage" yaml:"substring_coverage"`
}

// DefaultGarbleConfig returns the tuned defaults.
func DefaultGarbleConfig() GarbleConfig {
	return GarbleConfig{
		MinAlnumRatio:     0.45,
		RepeatedWordShare: 0.5,
		ShortWordMinWords: 10,
		ShortWordShare:    0.5,
		MaxRepeatRun:      3,
		SubstringCoverage: 0.6,
	}
}

var commonShortWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"to": true, "is": true, "it": true, "as": true, "at": true, "by": true,
	"for": true, "and": true, "or": true, "but": true, "not": true, "be": true,
	"we": true, "you": true, "he": true, "she": true, "our": true, "are": true,
	"was": true, "has": true, "had": true, "his": true, "her": true, "its": true,
	"if": true, "so": true, "no": true, "do": true, "my": true, "me": true,
	"up": true, "us": true, "all": true, "can": true, "may": true, "per": true,
	"via": true, "new": true, "one": true, "two": true, "how": true, "why": true,
	"who": true, "any": true, "use": true, "see": true, "out": true, "own": true,
	"i": true, "am": true,
}

// Letters that legitimately repeat: roman numerals (III, XXX, MMM) and www.
var repeatExempt = map[rune]bool{'i': true, 'x': true, 'c': true, 'm': true, 'w': true}

// IsGarbled reports whether s looks like extraction noise rather than prose
// or a heading. It never panics and returns false for blank input.
func IsGarbled(s string, cfg GarbleConfig) bool {
	compact := make([]rune, 0, len(s))
	alnum := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		compact = append(compact, unicode.ToLower(r))
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if len(compact) == 0 {
		return false
	}
	if float64(alnum)/float64(len(compact)) < cfg.MinAlnumRatio {
		return true
	}

	words := strings.Fields(strings.ToLower(s))
	if repeatedWords(words, cfg.RepeatedWordShare) {
		return true
	}
	if shortWords(words, cfg.ShortWordMinWords, cfg.ShortWordShare) {
		return true
	}
	if cfg.MaxRepeatRun > 1 && letterRun([]rune(strings.ToLower(s)), cfg.MaxRepeatRun) {
		return true
	}
	return substringCoverage(compact, cfg.SubstringCoverage)
}

// A word must occur at least three times, so "Step by Step" passes.
func repeatedWords(words []string, share float64) bool {
	if len(words) < 3 {
		return false
	}
	counts := make(map[string]int, len(words))
	top := 0
	for _, w := range words {
		counts[w]++
		top = max(top, counts[w])
	}
	return top >= 3 && float64(top) > share*float64(len(words))
}

func shortWords(words []string, minWords int, share float64) bool {
	if len(words) <= minWords {
		return false
	}
	short := 0
	for _, w := range words {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if RuneLen(w) <= 3 && !commonShortWords[w] {
			short++
		}
	}
	return float64(short) > share*float64(len(words))
}

func letterRun(r []rune, limit int) bool {
	run := 1
	for i := 1; i < len(r); i++ {
		if r[i] == r[i-1] && unicode.IsLetter(r[i]) && !repeatExempt[r[i]] {
			run++
			if run >= limit {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// substringCoverage detects text built from one short unit repeated, such
// as "RFP:RFP:RFP:" or "abababab".
func substringCoverage(r []rune, coverage float64) bool {
	if len(r) < 6 {
		return false
	}
	text := string(r)
	for size := 2; size <= 4; size++ {
		seen := make(map[string]bool)
		for i := 0; i+size <= len(r); i++ {
			sub := string(r[i : i+size])
			if seen[sub] {
				continue
			}
			seen[sub] = true
			n := strings.Count(text, sub)
			if n >= 3 && float64(n*size) >= coverage*float64(len(r)) {
				return true
			}
		}
	}
	return false
}
