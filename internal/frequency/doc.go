// Package frequency aggregates token occurrences and filters them into the
// final wordlist.
//
// A Table counts every occurrence across a run, case-insensitively, and
// remembers first-seen order. At drain time a Filter keeps a word only when
// its length is in range, it occurred often enough (host labels are exempt
// from this check), it is not IP-related while IP filtering is on, and it is
// not a stop word or markup boilerplate. Assemble then turns the surviving
// words into a deduplicated model.Wordlist.
package frequency
