// Package urlset turns raw URL inputs into the ordered set of Targets that
// the pipeline fetches.
//
// Inputs come from literal strings and from line-oriented files. Each entry
// is trimmed, normalized (a missing scheme becomes https) and deduplicated
// ignoring case and the http/https distinction. Malformed entries and
// unreadable files are counted, never fatal; an empty result is reported by
// the pipeline, not here.
package urlset
