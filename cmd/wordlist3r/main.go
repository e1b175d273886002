// Package main provides the entry point for the wordlist3r CLI.
//
// wordlist3r fetches a set of URLs concurrently and distills the words
// found in host names, titles, meta tags, visible text, link paths and
// form fields into a deduplicated wordlist for directory fuzzing.
//
// Usage:
//
//	wordlist3r extract https://admin.example.com https://shop.example.com
//	wordlist3r extract -f urls.txt -o words.txt
//
// See --help for all available options.
package main

// main is the entry point for wordlist3r.
func main() {
	Execute()
}
