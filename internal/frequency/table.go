package frequency

import (
	"iter"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

// entry is the aggregate state of one word.
type entry struct {
	count  int
	domain bool
}

// Table counts word occurrences across every Target of a run.
//
// A Table has a single writer: the pipeline consumer merges extraction
// results into it one at a time, so it carries no lock.
type Table struct {
	entries map[string]*entry
	order   []string
	total   int
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Add records one occurrence. Counting is case-insensitive.
// An occurrence from the domain source marks the word as domain-sourced,
// which exempts it from the frequency threshold.
func (t *Table) Add(occ model.TokenOccurrence) {
	word := strings.ToLower(occ.Word)
	if word == "" {
		return
	}

	e, ok := t.entries[word]
	if !ok {
		e = &entry{}
		t.entries[word] = e
		t.order = append(t.order, word)
	}
	e.count++
	if occ.Source == model.SourceDomain {
		e.domain = true
	}
	t.total++
}

// AddAll records every occurrence of seq and returns how many were added.
func (t *Table) AddAll(seq iter.Seq[model.TokenOccurrence]) int {
	n := 0
	for occ := range seq {
		t.Add(occ)
		n++
	}
	return n
}

// Count returns the number of occurrences of word.
func (t *Table) Count(word string) int {
	if e, ok := t.entries[strings.ToLower(word)]; ok {
		return e.count
	}
	return 0
}

// FromDomain reports whether word was seen as a host label.
func (t *Table) FromDomain(word string) bool {
	if e, ok := t.entries[strings.ToLower(word)]; ok {
		return e.domain
	}
	return false
}

// Len returns the number of distinct words.
func (t *Table) Len() int {
	return len(t.order)
}

// Total returns the number of occurrences recorded.
func (t *Table) Total() int {
	return t.total
}

// all yields every word with its aggregate state in first-seen order.
func (t *Table) all() iter.Seq2[string, entry] {
	return func(yield func(string, entry) bool) {
		for _, w := range t.order {
			if !yield(w, *t.entries[w]) {
				return
			}
		}
	}
}
