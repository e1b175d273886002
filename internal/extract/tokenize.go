package extract

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tokenizer applies the shared tokenization rule: split on any run of
// characters that are neither letters nor digits, lowercase each fragment
// and discard empty fragments. A tokenizer is not safe for concurrent use
// because cases.Caser keeps state.
type tokenizer struct {
	lower cases.Caser
}

func newTokenizer() *tokenizer {
	return &tokenizer{lower: cases.Lower(language.Und)}
}

// words yields the lowercase tokens of s. When identifiers is true,
// fragments are additionally split on case boundaries so that
// "userProfile" yields "user" and "profile".
func (t *tokenizer) words(s string, identifiers bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for raw := range fragments(s, identifiers) {
			if w := strings.Map(keepWordRune, t.lower.String(raw)); w != "" {
				if !yield(w) {
					return
				}
			}
		}
	}
}

// fragments yields the raw, case-preserved alphanumeric runs of s.
func fragments(s string, splitCase bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		var prev rune

		for i, r := range s {
			if !isWordRune(r) {
				if start >= 0 {
					if !yield(s[start:i]) {
						return
					}
					start = -1
				}
				prev = r
				continue
			}

			if start < 0 {
				start = i
			} else if splitCase && isCaseBoundary(prev, r, s[i+utf8.RuneLen(r):]) {
				if !yield(s[start:i]) {
					return
				}
				start = i
			}
			prev = r
		}

		if start >= 0 {
			yield(s[start:])
		}
	}
}

// isCaseBoundary reports whether a new word starts at r.
// "fooBar" splits before 'B'; "XMLParser" splits before 'P'.
func isCaseBoundary(prev, r rune, rest string) bool {
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) {
		next, _ := utf8.DecodeRuneInString(rest)
		return unicode.IsLower(next)
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keepWordRune drops the combining marks some lowercase mappings introduce,
// such as the dot above in the lowercase form of "İ".
func keepWordRune(r rune) rune {
	if isWordRune(r) {
		return r
	}
	return -1
}
