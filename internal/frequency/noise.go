package frequency

import "strconv"

// stopWords are common English function words.
var stopWords = newWordSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "could", "did", "do", "does",
	"doing", "down", "during", "each", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "i", "if", "in", "into", "is", "it", "its", "itself", "just",
	"may", "me", "might", "more", "most", "must", "my", "myself", "no", "nor",
	"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
	"ours", "ourselves", "out", "over", "own", "same", "shall", "she", "should", "so",
	"some", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then",
	"there", "these", "they", "this", "those", "through", "to", "too", "under", "until",
	"up", "us", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "would", "yet", "you", "your",
	"yours", "yourself", "yourselves",
)

// boilerplateWords are web and markup noise that shows up on nearly every page.
var boilerplateWords = newWordSet(
	"http", "https", "www", "html", "htm", "xhtml", "php", "asp", "aspx", "jsp",
	"div", "span", "class", "style", "script", "href", "src", "img", "nbsp", "amp",
	"quot", "px", "css", "utf", "charset", "doctype", "viewport", "width", "height",
)

// ipTerms are words that name network infrastructure rather than content.
var ipTerms = newWordSet("localhost", "loopback", "router", "gateway")

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// IsIPRelated reports whether word is an IPv4 octet (a decimal run in 0-255)
// or an infrastructure term such as "localhost".
func IsIPRelated(word string) bool {
	return ipTerms.has(word) || isOctet(word)
}

func isOctet(word string) bool {
	if word == "" || len(word) > 3 {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(word)
	return err == nil && n <= 255
}
