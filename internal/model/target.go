package model

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Target errors.
var (
	// ErrEmptyTarget is returned when the raw URL is empty after trimming.
	ErrEmptyTarget = errors.New("target URL cannot be empty")
	// ErrInvalidTarget is returned when the raw URL cannot be parsed into an
	// http(s) URL with a host.
	ErrInvalidTarget = errors.New("invalid target URL")
)

const (
	// defaultScheme is prefixed to scheme-less inputs such as "example.com".
	defaultScheme = "https"
	schemeHTTP    = "http"
)

// Target is an immutable value object describing one normalized URL slated
// for fetching, together with the host structure inferred from it.
type Target struct {
	url       string // Normalized URL (lowercase scheme and host, no fragment)
	host      string // Hostname without port, lowercase
	domain    string // Registrable label, e.g. "example" for admin.example.co.uk
	subdomain string // Labels left of the registrable domain, e.g. "admin"
	suffix    string // Public suffix, e.g. "co.uk"
	isIP      bool   // Host is an IPv4 or IPv6 literal
}

// NewTarget parses raw into a Target.
//
// Inputs without a scheme are prefixed with https://, and protocol-relative
// inputs ("//host/path") get the https scheme. Only http and https URLs with
// a non-empty host are accepted.
func NewTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrEmptyTarget
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return Target{}, ErrInvalidTarget
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		raw = defaultScheme + ":" + raw
	case !strings.Contains(raw, "://"):
		raw = defaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, errors.Join(ErrInvalidTarget, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != schemeHTTP && u.Scheme != defaultScheme {
		return Target{}, ErrInvalidTarget
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return Target{}, ErrInvalidTarget
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	t := Target{
		url:  u.String(),
		host: host,
	}
	t.inferHost()

	return t, nil
}

// MustNewTarget creates a new Target or panics if raw is invalid.
// Use only for known-valid URLs in tests or initialization.
func MustNewTarget(raw string) Target {
	t, err := NewTarget(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// inferHost splits the host into subdomain, registrable domain and suffix
// using the public suffix list. IP literals are left unsplit.
func (t *Target) inferHost() {
	if ip := net.ParseIP(t.host); ip != nil {
		t.isIP = true
		return
	}

	suffix, _ := publicsuffix.PublicSuffix(t.host)
	t.suffix = suffix

	etldPlusOne, err := publicsuffix.EffectiveTLDPlusOne(t.host)
	if err != nil {
		// The host is itself a public suffix or a single label ("localhost").
		if t.host != suffix {
			t.domain = strings.TrimSuffix(t.host, "."+suffix)
		}
		return
	}

	t.domain = strings.TrimSuffix(etldPlusOne, "."+suffix)
	if t.host != etldPlusOne {
		t.subdomain = strings.TrimSuffix(t.host, "."+etldPlusOne)
	}
}

// URL returns the normalized URL string.
func (t Target) URL() string {
	return t.url
}

// String returns the normalized URL string.
func (t Target) String() string {
	return t.url
}

// Host returns the lowercase hostname without port.
func (t Target) Host() string {
	return t.host
}

// Domain returns the registrable label of the host (without suffix).
func (t Target) Domain() string {
	return t.domain
}

// Subdomain returns the dot-joined labels in front of the registrable domain.
func (t Target) Subdomain() string {
	return t.subdomain
}

// Suffix returns the public suffix of the host, e.g. "com" or "co.uk".
func (t Target) Suffix() string {
	return t.suffix
}

// IsIP reports whether the host is an IP literal.
func (t Target) IsIP() bool {
	return t.isIP
}

// Key returns the deduplication key of the target.
// Keys ignore case and the http/https distinction, so
// "http://Example.com/a" and "https://example.com/A" share a key.
func (t Target) Key() string {
	u, err := url.Parse(t.url)
	if err != nil {
		return strings.ToLower(t.url)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	key := u.Host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return strings.ToLower(key)
}

// IsZero reports whether t is the zero Target.
func (t Target) IsZero() bool {
	return t.url == ""
}
