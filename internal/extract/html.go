package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/wordlist3r/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// invisibleElements hold text that is never rendered.
var invisibleElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
	"svg":      {},
}

// metaNames are the name attributes whose content is tokenized.
var metaNames = map[string]struct{}{
	"description": {},
	"keywords":    {},
}

// linkAttrs maps a selector to the attribute holding a referenced URL.
var linkAttrs = []struct {
	selector string
	attr     string
}{
	{selector: "a[href]", attr: "href"},
	{selector: "area[href]", attr: "href"},
	{selector: "link[href]", attr: "href"},
	{selector: "img[src]", attr: "src"},
	{selector: "script[src]", attr: "src"},
	{selector: "iframe[src]", attr: "src"},
}

// extractHTML emits the title, meta, body, link and form sources of an HTML page.
func (e *Extractor) extractHTML(em *emitter, target model.Target, outcome model.FetchOutcome) {
	r, err := charset.NewReader(bytes.NewReader(outcome.Content), outcome.ContentType)
	if err != nil {
		r = bytes.NewReader(outcome.Content)
	}

	root, err := html.Parse(r)
	if err != nil {
		e.logger.Debug("failed to parse HTML", "url", target.URL(), "error", err)
		return
	}
	doc := goquery.NewDocumentFromNode(root)

	_ = extractTitle(em, doc) &&
		extractMeta(em, doc) &&
		extractBody(em, doc) &&
		extractLinks(em, doc) &&
		extractForms(em, doc)
}

func extractTitle(em *emitter, doc *goquery.Document) bool {
	return em.text(model.SourceTitle, doc.Find("title").First().Text())
}

// extractMeta covers description/keywords, OpenGraph and Twitter card
// meta tags plus alt and title attributes anywhere in the document.
func extractMeta(em *emitter, doc *goquery.Document) bool {
	ok := true

	doc.Find("meta[content]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		key := strings.ToLower(strings.TrimSpace(s.AttrOr("name", "")))
		if key == "" {
			key = strings.ToLower(strings.TrimSpace(s.AttrOr("property", "")))
		}
		if !isTokenizedMeta(key) {
			return true
		}
		ok = em.text(model.SourceMeta, s.AttrOr("content", ""))
		return ok
	})
	if !ok {
		return false
	}

	doc.Find("[alt], [title]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"alt", "title"} {
			if v, exists := s.Attr(attr); exists {
				if ok = em.text(model.SourceMeta, v); !ok {
					return false
				}
			}
		}
		return true
	})
	return ok
}

func isTokenizedMeta(key string) bool {
	if _, ok := metaNames[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "og:") || strings.HasPrefix(key, "twitter:")
}

// extractBody walks the body and emits every visible text node.
func extractBody(em *emitter, doc *goquery.Document) bool {
	for _, body := range doc.Find("body").Nodes {
		if !walkText(em, body) {
			return false
		}
	}
	return true
}

func walkText(em *emitter, n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return em.text(model.SourceBody, n.Data)
	case html.ElementNode:
		if _, skip := invisibleElements[n.Data]; skip {
			return true
		}
	case html.CommentNode:
		return true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkText(em, c) {
			return false
		}
	}
	return true
}

// extractLinks emits path segments of every referenced URL.
func extractLinks(em *emitter, doc *goquery.Document) bool {
	for _, la := range linkAttrs {
		ok := true
		doc.Find(la.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			ok = emitPath(em, model.SourceLink, s.AttrOr(la.attr, ""))
			return ok
		})
		if !ok {
			return false
		}
	}
	return true
}

// extractForms emits name and id attributes of form fields and the path
// segments of form actions.
func extractForms(em *emitter, doc *goquery.Document) bool {
	ok := true

	doc.Find("form[action]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		ok = emitPath(em, model.SourceForm, s.AttrOr("action", ""))
		return ok
	})
	if !ok {
		return false
	}

	doc.Find("input, select, textarea, button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"name", "id"} {
			if v, exists := s.Attr(attr); exists {
				if ok = em.identifier(model.SourceForm, v); !ok {
					return false
				}
			}
		}
		return true
	})
	return ok
}

// emitPath emits the tokens of the path segments of ref.
// Relative references contribute only their own segments; references with a
// non-http(s) scheme such as mailto: or javascript: are ignored.
func emitPath(em *emitter, source model.Source, ref string) bool {
	for segment := range strings.SplitSeq(referencePath(ref), "/") {
		if segment == "" {
			continue
		}
		if !em.identifier(source, segment) {
			return false
		}
	}
	return true
}

// referencePath returns the unescaped path of ref, or "" when ref does not
// point at an http(s) resource.
func referencePath(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ""
	}

	u, err := url.Parse(ref)
	if err != nil || u.Opaque != "" {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Path
}
