// Package model defines the core data structures shared by the wordlist pipeline.
//
// This package contains the following main types:
//   - Target: A normalized URL plus its inferred host structure
//   - FetchOutcome / FetchResult: The success-or-failure result of one fetch
//   - TokenOccurrence: A candidate word tagged with the source it came from
//   - Wordlist: The final, deduplicated word sequence
//   - RunSummary: Counters describing a finished run
//
// Models live in their own package so that urlset, fetcher, extract,
// frequency, pipeline and report can share them without import cycles.
package model
