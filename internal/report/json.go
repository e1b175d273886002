package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/wordlist3r/internal/model"
)

// JSONWriter outputs run reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is embedded in the document when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the serialized form of a RunSummary.
// Durations are reported in milliseconds and failure counts are keyed by
// reason label, so the document does not depend on Go-specific encodings.
type JSONReport struct {
	Version         string          `json:"version,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	ElapsedMillis   int64           `json:"elapsed_ms"`
	Interrupted     bool            `json:"interrupted"`
	Targets         int             `json:"targets"`
	Completed       int             `json:"completed"`
	Succeeded       int             `json:"succeeded"`
	Failed          int             `json:"failed"`
	Failures        map[string]int  `json:"failures"`
	FailedTargets   []JSONFailedURL `json:"failed_targets"`
	InvalidInputs   int             `json:"invalid_inputs"`
	UnreadableFiles int             `json:"unreadable_files"`
	Tokens          int             `json:"tokens"`
	UniqueTokens    int             `json:"unique_tokens"`
	Words           int             `json:"words"`
}

// JSONFailedURL is the serialized form of a failed target.
type JSONFailedURL struct {
	URL        string `json:"url"`
	Reason     string `json:"reason"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// NewJSONReport converts summary into its serialized form.
func NewJSONReport(summary *model.RunSummary, version string) *JSONReport {
	failures := make(map[string]int, len(model.FailureReasons))
	for _, reason := range model.FailureReasons {
		failures[reason.String()] = summary.Failures[reason]
	}

	failed := make([]JSONFailedURL, len(summary.FailedTargets))
	for i, f := range summary.FailedTargets {
		failed[i] = JSONFailedURL{
			URL:        f.URL,
			Reason:     f.Reason.String(),
			StatusCode: f.StatusCode,
			Message:    f.Message,
		}
	}

	return &JSONReport{
		Version:         version,
		StartedAt:       summary.StartedAt,
		ElapsedMillis:   summary.Elapsed.Milliseconds(),
		Interrupted:     summary.Interrupted,
		Targets:         summary.Targets,
		Completed:       summary.Completed,
		Succeeded:       summary.Succeeded,
		Failed:          summary.Failed(),
		Failures:        failures,
		FailedTargets:   failed,
		InvalidInputs:   summary.InvalidInputs,
		UnreadableFiles: summary.UnreadableFiles,
		Tokens:          summary.Tokens,
		UniqueTokens:    summary.UniqueTokens,
		Words:           summary.Words,
	}
}

// Write outputs the run summary in JSON format.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	return w.writeJSON(NewJSONReport(summary, w.version))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
