// Package report writes the results of a wordlist run.
//
// The wordlist itself is written with WriteWordlist or WriteWordlistFile,
// one word per line. Run statistics are rendered by a Writer:
//   - SimpleWriter: one-line terminal summary with a failure breakdown
//   - MarkdownWriter: GitHub Flavored Markdown report with a mermaid chart
//   - JSONWriter: structured output for tool integration
//
// NewFileWriter selects the Markdown or JSON writer from a file extension.
package report
