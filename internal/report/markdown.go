package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wordlist3r/internal/model"
)

// MarkdownWriter outputs run reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeFailures(md, summary)
	w.writeFailedTargets(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run overview table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Wordlist3r Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.Round(1e6).String()},
			{"Status", statusText(summary)},
			{"Targets", strconv.Itoa(summary.Targets)},
			{"Completed", strconv.Itoa(summary.Completed)},
			{"Succeeded", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed())},
			{"Invalid Inputs", strconv.Itoa(summary.InvalidInputs)},
			{"Unreadable Files", strconv.Itoa(summary.UnreadableFiles)},
			{"Token Occurrences", strconv.Itoa(summary.Tokens)},
			{"Unique Tokens", strconv.Itoa(summary.UniqueTokens)},
			{"Words", "**" + strconv.Itoa(summary.Words) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case summary.Interrupted:
		md.Warningf("Run was interrupted after %d of %d targets. The wordlist is partial.",
			summary.Completed, summary.Targets)
	case summary.Words == 0:
		md.Note("No words passed the filters. Try lowering --min-freq or --min-length.")
	default:
		md.Tip("Wordlist is ready for directory fuzzing.")
	}
	md.PlainText("")
}

// statusText returns the status text based on summary state.
func statusText(summary *model.RunSummary) string {
	if summary.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	if summary.Targets > 0 && summary.Succeeded == 0 {
		return "❌ No target could be fetched"
	}
	return "✅ Complete"
}

// writeFailures writes the failure breakdown table and chart.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Failures by Reason")
	md.PlainText("")

	if summary.Failed() == 0 {
		md.PlainText("Every completed target was fetched successfully.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(model.FailureReasons))
	for _, reason := range model.FailureReasons {
		rows = append(rows, []string{"`" + reason.String() + "`", strconv.Itoa(summary.Failures[reason])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Failed()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Reason", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart of fetch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if summary.Succeeded > 0 {
		chart.LabelAndIntValue("ok", uint64(summary.Succeeded))
	}
	for _, reason := range model.FailureReasons {
		if n := summary.Failures[reason]; n > 0 {
			chart.LabelAndIntValue(reason.String(), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFailedTargets lists every failed target.
func (w *MarkdownWriter) writeFailedTargets(md *markdown.Markdown, summary *model.RunSummary) {
	if len(summary.FailedTargets) == 0 {
		return
	}

	md.H2("Failed Targets")
	md.PlainText("")

	rows := make([][]string, len(summary.FailedTargets))
	for i, f := range summary.FailedTargets {
		status := "-"
		if f.StatusCode != 0 {
			status = strconv.Itoa(f.StatusCode)
		}
		message := f.Message
		if message == "" {
			message = "-"
		}
		rows[i] = []string{
			"`" + truncateString(f.URL, 80) + "`",
			f.Reason.String(),
			status,
			truncateString(message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason", "Status", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordlist3r](https://github.com/nao1215/wordlist3r)*")
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
