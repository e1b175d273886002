package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nao1215/wordlist3r/internal/pipeline"
)

// progress renders per-target completion events.
// Verbose runs log every event at debug level; other runs show a spinner
// on stderr with a completion counter.
type progress struct {
	logger  *slog.Logger
	spinner *spinner.Spinner
	total   int
}

// newProgress creates a progress renderer for total targets.
func newProgress(logger *slog.Logger, total int, verbose bool) *progress {
	p := &progress{
		logger: logger,
		total:  total,
	}
	if !verbose {
		p.spinner = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(os.Stderr))
		p.spinner.Suffix = fmt.Sprintf(" Completed 0/%d URLs", total)
	}
	return p
}

// start begins rendering. The spinner stays silent when stderr is not a terminal.
func (p *progress) start() {
	if p.spinner != nil {
		p.spinner.Start()
	}
}

// stop clears the spinner line.
func (p *progress) stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

// observe is registered as the pipeline observer.
func (p *progress) observe(ev pipeline.Event) {
	outcome := ev.Result.Outcome
	if outcome.OK() {
		p.logger.Debug("fetched",
			"url", ev.Result.Target.URL(),
			"status", outcome.StatusCode,
			"tokens", ev.Tokens,
			"elapsed", ev.Result.Elapsed,
			"completed", ev.Completed,
			"total", ev.Total,
		)
	} else {
		p.logger.Debug("fetch failed",
			"url", ev.Result.Target.URL(),
			"reason", outcome.Reason.String(),
			"error", outcome.Err,
			"completed", ev.Completed,
			"total", ev.Total,
		)
	}

	if p.spinner != nil {
		p.spinner.Lock()
		p.spinner.Suffix = fmt.Sprintf(" Completed %d/%d URLs", ev.Completed, ev.Total)
		p.spinner.Unlock()
	}
}
