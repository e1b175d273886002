// Package pipeline runs a wordlist extraction from Targets to Wordlist.
//
// Data flows in one direction: a Source fetches Targets concurrently and
// streams FetchResults, the consumer extracts tokens from each result as it
// arrives and merges them into a frequency.Table, and once the stream ends
// the table is filtered and assembled into a model.Wordlist.
//
// Extraction and merging happen on a single consumer goroutine. Results are
// merged one at a time, which keeps the table free of locks while fetching
// stays fully concurrent. Because aggregation is incremental, a cancelled
// run still returns a Wordlist built from the results consumed so far.
package pipeline
