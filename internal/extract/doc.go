// Package extract turns fetched pages into candidate words.
//
// Tokens are drawn from six sources: the host labels of the URL (domain),
// the page title, selected meta tags and alt/title attributes (meta),
// visible body text (body), path segments of referenced URLs (link), and
// form actions and field names (form). Domain tokens are produced even when
// the fetch failed. IPv6 hosts produce none. Stylesheet and script bodies
// yield no body tokens.
//
// Every source shares one tokenization rule: split on runs of characters
// that are neither letters nor digits, lowercase, and drop empty fragments.
// Combining marks introduced by lowercasing are removed.
// Link and form tokens are additionally split on case boundaries.
//
// HTML is decoded with golang.org/x/net/html/charset, parsed with
// golang.org/x/net/html and queried with goquery.
package extract
