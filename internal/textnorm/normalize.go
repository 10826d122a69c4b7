// Package textnorm repairs text extraction artifacts and flags text that is
// too corrupted to serve as a title or heading.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	hyphenBreak = regexp.MustCompile(`(\p{Ll})-[ \t]*\r?\n[ \t]*(\p{Ll})`)
	dotLeader   = regexp.MustCompile(`^(.*?\S)\s*[.·_\-](?: ?[.·_\-])+\s*\d{1,4}$`)
	bareTrailer = regexp.MustCompile(`^(.*\S)\s+(\d{1,3})$`)
	bulletOnly  = regexp.MustCompile(`^[\-–—•·◦▪▫●○■□►▶*#+>]+$`)
)

// Words that may legitimately precede a trailing number.
var numberingWords = map[string]bool{
	"chapter": true, "section": true, "part": true, "appendix": true,
	"page": true, "step": true, "phase": true, "version": true,
	"volume": true, "unit": true, "lesson": true, "table": true,
	"figure": true, "module": true, "level": true, "grade": true,
}

// Lower-case words that stand alone after a capital initial ("Vitamin C and").
var freeStandingWords = map[string]bool{
	"and": true, "or": true, "of": true, "the": true, "in": true, "on": true,
	"to": true, "is": true, "as": true, "at": true, "by": true, "for": true,
	"with": true, "from": true, "an": true, "are": true, "was": true,
	"be": true, "if": true, "vs": true, "via": true, "per": true,
}

// Normalize applies the extraction-artifact repairs in a fixed order.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = hyphenBreak.ReplaceAllString(s, "$1$2")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	// One repair can expose another ("T heIntroduction" splits, then
	// joins), so repeat until the text settles. Every pass either shortens
	// the text or adds a space the other repairs never remove.
	for range len(s) + 1 {
		next := repair(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func repair(s string) string {
	r := []rune(s)
	r = spaceAfterSentence(r)
	r = splitConcatenated(r)
	r = joinIsolatedCapitals(r)
	r = collapseRepeats(r)
	s = stripTrailingPageNumber(string(r))

	s = strings.Join(strings.Fields(s), " ")
	if bulletOnly.MatchString(s) || IsDigits(s) {
		return ""
	}
	return s
}

// "end.Next" -> "end. Next"
func spaceAfterSentence(r []rune) []rune {
	out := make([]rune, 0, len(r)+4)
	for i, c := range r {
		out = append(out, c)
		if (c == '.' || c == '!' || c == '?') && i > 0 && i+1 < len(r) &&
			unicode.IsLower(r[i-1]) && unicode.IsUpper(r[i+1]) {
			out = append(out, ' ')
		}
	}
	return out
}

// "T he" -> "The" at the start of the text or of a sentence. A and I are
// words on their own.
func joinIsolatedCapitals(r []rune) []rune {
	out := make([]rune, 0, len(r))
	for i := 0; i < len(r); i++ {
		c := r[i]
		out = append(out, c)
		if !unicode.IsUpper(c) || c == 'A' || c == 'I' {
			continue
		}
		if i > 0 && !(i >= 2 && r[i-1] == ' ' && strings.ContainsRune(".!?:", r[i-2])) {
			continue
		}
		if i+2 >= len(r) || r[i+1] != ' ' {
			continue
		}
		end := i + 2
		for end < len(r) && unicode.IsLower(r[end]) {
			end++
		}
		word := string(r[i+2 : end])
		boundary := end == len(r) || r[end] == ' ' || unicode.IsPunct(r[end])
		if len([]rune(word)) >= 2 && boundary && !freeStandingWords[word] {
			i++ // drop the separating space
		}
	}
	return out
}

// "endStart" -> "end Start"; needs two lower-case letters before the capital
// so that "McDonald" and "iPhone" survive.
func splitConcatenated(r []rune) []rune {
	out := make([]rune, 0, len(r)+4)
	for i, c := range r {
		if i >= 2 && i+1 < len(r) && unicode.IsUpper(c) &&
			unicode.IsLower(r[i-1]) && unicode.IsLower(r[i-2]) && unicode.IsLower(r[i+1]) {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	return out
}

// Runs of three or more identical characters shrink to two. Digits and
// spaces are left alone so numbers like 1000 survive.
func collapseRepeats(r []rune) []rune {
	out := make([]rune, 0, len(r))
	run := 0
	for i, c := range r {
		if i > 0 && c == r[i-1] {
			run++
		} else {
			run = 1
		}
		if run > 2 && !unicode.IsDigit(c) && c != ' ' {
			continue
		}
		out = append(out, c)
	}
	return out
}

func stripTrailingPageNumber(s string) string {
	for {
		next := s
		if m := dotLeader.FindStringSubmatch(next); m != nil {
			next = m[1]
		} else if m := bareTrailer.FindStringSubmatch(next); m != nil {
			words := strings.Fields(m[1])
			last := strings.ToLower(strings.Trim(words[len(words)-1], ".:,"))
			if len(words) >= 3 && !numberingWords[last] {
				next = m[1]
			}
		}
		next = strings.TrimSpace(next)
		if next == s {
			return s
		}
		s = next
	}
}
