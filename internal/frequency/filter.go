package frequency

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/wordlist3r/internal/model"
)

// Default filter settings.
const (
	DefaultMinLength = 3
	DefaultMaxLength = 50
	DefaultMinFreq   = 2
)

var (
	// ErrInvalidLengthRange is returned when MinLength exceeds MaxLength
	// or either bound is not positive.
	ErrInvalidLengthRange = errors.New("invalid word length range")

	// ErrInvalidMinFreq is returned when MinFreq is less than 1.
	ErrInvalidMinFreq = errors.New("min frequency must be at least 1")
)

// Options controls which words survive the filter.
type Options struct {
	// MinLength and MaxLength bound word length in characters, inclusive.
	MinLength int
	MaxLength int

	// MinFreq is the occurrence count a word needs to be kept.
	// Domain-sourced words are exempt.
	MinFreq int

	// IPFilter drops IPv4 octets, IP literals and infrastructure terms.
	IPFilter bool

	// Sort emits words in lexicographic order instead of first-seen order.
	Sort bool

	// ExtraStopWords are dropped in addition to the built-in noise lists.
	ExtraStopWords []string
}

// DefaultOptions returns the default filter settings.
func DefaultOptions() Options {
	return Options{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
		MinFreq:   DefaultMinFreq,
		IPFilter:  true,
	}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.MinLength < 1 || o.MaxLength < 1 || o.MinLength > o.MaxLength {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidLengthRange, o.MinLength, o.MaxLength)
	}
	if o.MinFreq < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMinFreq, o.MinFreq)
	}
	return nil
}

// Filter decides which words of a Table end up in the wordlist.
type Filter struct {
	opts  Options
	extra wordSet
}

// NewFilter creates a Filter.
func NewFilter(opts Options) *Filter {
	extra := make(wordSet, len(opts.ExtraStopWords))
	for _, w := range opts.ExtraStopWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			extra[w] = struct{}{}
		}
	}
	return &Filter{opts: opts, extra: extra}
}

// Keep reports whether a word with the given count is retained.
func (f *Filter) Keep(word string, count int, fromDomain bool) bool {
	n := utf8.RuneCountInString(word)
	if n < f.opts.MinLength || n > f.opts.MaxLength {
		return false
	}
	if !fromDomain && count < f.opts.MinFreq {
		return false
	}
	if f.opts.IPFilter && IsIPRelated(word) {
		return false
	}
	if stopWords.has(word) || boilerplateWords.has(word) || f.extra.has(word) {
		return false
	}
	return true
}

// Apply yields the retained words of t, in first-seen order or sorted.
func (f *Filter) Apply(t *Table) iter.Seq[string] {
	var kept iter.Seq[string] = func(yield func(string) bool) {
		for w, e := range t.all() {
			if f.Keep(w, e.count, e.domain) && !yield(w) {
				return
			}
		}
	}
	if !f.opts.Sort {
		return kept
	}
	return slices.Values(slices.Sorted(kept))
}

// Drain filters t and assembles the resulting Wordlist.
func (f *Filter) Drain(t *Table) model.Wordlist {
	return Assemble(f.Apply(t))
}
