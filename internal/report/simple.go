package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

// SimpleWriter outputs the end-of-run summary as plain text for the
// terminal. It is written to stderr so that a wordlist on stdout stays
// clean for piping.
type SimpleWriter struct {
	baseWriter

	// verbose lists every failed URL instead of only the counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-URL failure listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeSummaryLine(&sb, summary)
	w.writeFailures(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeSummaryLine writes the one-line overview.
func (w *SimpleWriter) writeSummaryLine(sb *strings.Builder, summary *model.RunSummary) {
	status := "done"
	if summary.Interrupted {
		status = "interrupted"
	}

	fmt.Fprintf(sb, "%s: %d words from %d/%d URLs (%d ok, %d failed) in %s\n",
		status,
		summary.Words,
		summary.Completed,
		summary.Targets,
		summary.Succeeded,
		summary.Failed(),
		summary.Elapsed.Round(1e6),
	)

	if summary.InvalidInputs > 0 || summary.UnreadableFiles > 0 {
		fmt.Fprintf(sb, "skipped: %d invalid inputs, %d unreadable files\n",
			summary.InvalidInputs, summary.UnreadableFiles)
	}
}

// writeFailures writes the per-reason breakdown and, in verbose mode,
// every failed URL.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, summary *model.RunSummary) {
	if summary.Failed() == 0 {
		return
	}

	parts := make([]string, 0, len(model.FailureReasons))
	for _, reason := range model.FailureReasons {
		if n := summary.Failures[reason]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
		}
	}
	fmt.Fprintf(sb, "failures: %s\n", strings.Join(parts, " "))

	if !w.verbose {
		return
	}
	for _, f := range summary.FailedTargets {
		if f.StatusCode != 0 {
			fmt.Fprintf(sb, "  [%s] %s (%d)\n", f.Reason, f.URL, f.StatusCode)
			continue
		}
		fmt.Fprintf(sb, "  [%s] %s\n", f.Reason, f.URL)
	}
}
