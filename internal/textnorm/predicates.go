package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern = regexp.MustCompile(`(?i)(https?://|ftp://|www\.)\S+|\b[a-z0-9-]+\.(com|org|net|edu|gov|io)\b`)

	enumeratorPattern = regexp.MustCompile(`(?i)^\(?(\d{1,3}|[a-z]|m{0,3}(cm|cd|d?c{0,3})(xc|xl|l?x{0,3})(ix|iv|v?i{0,3})|\d{1,3}(\.\d{1,3})+)[.)]?$`)

	numberedPattern = regexp.MustCompile(`^(\d{1,3}\.\s+\S|\d{1,3}(\.\d{1,3}){1,3}\.?\s+\S|[A-Z]\.\s+\S|[IVXLCDM]{1,6}\.\s+\S|(?i:chapter|section|appendix|part)\s+[\w.]+)`)

	numberingDepth = regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3}){0,3})\.?\s`)
)

// IsDigits reports whether s is a non-empty run of decimal digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSeparator reports whether s consists only of rule or punctuation marks,
// such as "-----" or "* * *".
func IsSeparator(s string) bool {
	n := 0
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			n++
		default:
			return false
		}
	}
	return n > 0
}

// HasURL reports whether s contains a web address.
func HasURL(s string) bool {
	return urlPattern.MatchString(s)
}

// IsEnumerator matches bare list markers: "3", "b)", "(iv)", "2.1".
func IsEnumerator(s string) bool {
	return enumeratorPattern.MatchString(strings.TrimSpace(s))
}

// IsNumbered matches section numbering such as "1.", "2.3 Scope", "A. Terms"
// or "Chapter 4".
func IsNumbered(s string) bool {
	return numberedPattern.MatchString(s)
}

// NumberingDepth returns 2 for "1.2 Scope" and 0 when s is not numbered.
func NumberingDepth(s string) int {
	m := numberingDepth.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

// HasLetterOrDigit reports whether any rune of s is alphanumeric.
func HasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// Key reduces s to lower-case letters and digits for duplicate detection.
func Key(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// RuneLen counts the runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}
