package model

// Source tags where a token was found.
type Source string

const (
	// SourceDomain is a host or subdomain label of the Target URL.
	SourceDomain Source = "domain"
	// SourceTitle is the <title> text.
	SourceTitle Source = "title"
	// SourceMeta covers description/keywords, OpenGraph and Twitter card
	// meta tags plus alt and title attributes.
	SourceMeta Source = "meta"
	// SourceBody is visible body text.
	SourceBody Source = "body"
	// SourceLink is a path segment of a referenced URL.
	SourceLink Source = "link"
	// SourceForm is a form field name or id, or a form action path segment.
	SourceForm Source = "form"
)

// TokenOccurrence is one instance of a candidate word found in one source.
type TokenOccurrence struct {
	Word   string
	Source Source
}
