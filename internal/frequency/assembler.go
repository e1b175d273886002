package frequency

import (
	"iter"
	"slices"

	"github.com/nao1215/wordlist3r/internal/model"
)

// Assemble collects filtered words into a Wordlist. Repeated words are kept
// once at their first position. An empty sequence yields an empty Wordlist,
// which is a valid result.
func Assemble(words iter.Seq[string]) model.Wordlist {
	return model.NewWordlist(slices.Collect(words))
}
