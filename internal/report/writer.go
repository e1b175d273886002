package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

// Writer defines the interface for run report output.
// Implementations render a RunSummary in a specific format.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.RunSummary) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// NewFileWriter picks the report format from the file extension:
// ".json" selects JSON, anything else Markdown.
func NewFileWriter(path string, output io.Writer) Writer {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONWriter(output, WithPrettyPrint())
	}
	return NewMarkdownWriter(output)
}

// CreateFile creates path for writing, creating missing parent directories.
// The caller must close the returned file.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

// WriteReportFile renders summary into the file at path.
func WriteReportFile(path string, summary *model.RunSummary) error {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}

	if _, err := NewFileWriter(path, f).Write(summary); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// WriteWordlist writes one word per line to w.
func WriteWordlist(w io.Writer, wordlist model.Wordlist) error {
	if _, err := wordlist.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write wordlist: %w", err)
	}
	return nil
}

// WriteWordlistFile writes the wordlist to the file at path.
func WriteWordlistFile(path string, wordlist model.Wordlist) error {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}

	if err := WriteWordlist(f, wordlist); err != nil {
		_ = f.Close() //nolint:errcheck // Write error takes precedence
		return err
	}
	return f.Close()
}
