package model

import (
	"bufio"
	"io"
)

// Wordlist is the final, deduplicated sequence of lowercase words.
// It is created once at the end of a run and never mutated afterwards.
type Wordlist struct {
	words []string
}

// NewWordlist builds a Wordlist from words, dropping repeated entries and
// keeping the first occurrence. The input slice is copied.
func NewWordlist(words []string) Wordlist {
	seen := make(map[string]struct{}, len(words))
	unique := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		unique = append(unique, w)
	}
	return Wordlist{words: unique}
}

// Words returns a copy of the words in order.
func (w Wordlist) Words() []string {
	out := make([]string, len(w.words))
	copy(out, w.words)
	return out
}

// Len returns the number of words.
func (w Wordlist) Len() int {
	return len(w.words)
}

// IsEmpty reports whether the wordlist holds no words.
func (w Wordlist) IsEmpty() bool {
	return len(w.words) == 0
}

// Contains reports whether word is part of the list.
func (w Wordlist) Contains(word string) bool {
	for _, v := range w.words {
		if v == word {
			return true
		}
	}
	return false
}

// WriteTo writes one word per line to dst.
func (w Wordlist) WriteTo(dst io.Writer) (int64, error) {
	bw := bufio.NewWriter(dst)
	var total int64
	for _, word := range w.words {
		n, err := bw.WriteString(word + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}
