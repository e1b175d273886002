package extract

import (
	"bytes"
	"io"
	"iter"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
	"golang.org/x/net/html/charset"
)

// contentKind is the coarse category of a response body.
type contentKind int

const (
	contentOther contentKind = iota
	contentMarkup
	contentText
)

// Extractor turns a fetched Target into TokenOccurrences.
// An Extractor holds no per-page state and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Extract returns a lazy sequence of the tokens found for target.
//
// Domain tokens are always produced because they come from the URL itself.
// Content sources (title, meta, body, link, form) are only produced for a
// successful outcome. Each range over the sequence re-parses the content,
// so consumers should range once.
func (e *Extractor) Extract(target model.Target, outcome model.FetchOutcome) iter.Seq[model.TokenOccurrence] {
	return func(yield func(model.TokenOccurrence) bool) {
		em := &emitter{tok: newTokenizer(), yield: yield}

		for _, label := range hostLabels(target) {
			if !em.text(model.SourceDomain, label) {
				return
			}
		}

		if !outcome.OK() || len(outcome.Content) == 0 {
			return
		}

		switch classifyContent(outcome.ContentType, outcome.Content) {
		case contentMarkup:
			e.extractHTML(em, target, outcome)
		case contentText:
			em.text(model.SourceBody, e.decode(outcome))
		case contentOther:
			e.logger.Debug("skipping non-text content", "url", target.URL(), "content_type", outcome.ContentType)
		}
	}
}

// decode converts the body to UTF-8 using the declared or sniffed charset.
func (e *Extractor) decode(outcome model.FetchOutcome) string {
	r, err := charset.NewReader(bytes.NewReader(outcome.Content), outcome.ContentType)
	if err != nil {
		return string(outcome.Content)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(outcome.Content)
	}
	return string(decoded)
}

// classifyContent decides how a body should be tokenized.
// A missing Content-Type is sniffed from the body.
func classifyContent(contentType string, content []byte) contentKind {
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(content)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}

	switch {
	case mediaType == "text/html",
		mediaType == "application/xhtml+xml",
		mediaType == "text/xml",
		mediaType == "application/xml":
		return contentMarkup
	case mediaType == "text/css",
		mediaType == "text/javascript",
		mediaType == "text/ecmascript":
		return contentOther
	case strings.HasPrefix(mediaType, "text/"):
		return contentText
	default:
		return contentOther
	}
}

// emitter forwards tokens to the consumer and remembers when it stopped.
type emitter struct {
	tok     *tokenizer
	yield   func(model.TokenOccurrence) bool
	stopped bool
}

// text tokenizes natural-language text.
func (em *emitter) text(source model.Source, s string) bool {
	return em.emit(source, s, false)
}

// identifier tokenizes names and path segments, splitting on case boundaries.
func (em *emitter) identifier(source model.Source, s string) bool {
	return em.emit(source, s, true)
}

func (em *emitter) emit(source model.Source, s string, identifiers bool) bool {
	if em.stopped {
		return false
	}
	for w := range em.tok.words(s, identifiers) {
		if !em.yield(model.TokenOccurrence{Word: w, Source: source}) {
			em.stopped = true
			return false
		}
	}
	return true
}
