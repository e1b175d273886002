package pipeline

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/nao1215/wordlist3r/internal/extract"
	"github.com/nao1215/wordlist3r/internal/frequency"
	"github.com/nao1215/wordlist3r/internal/model"
)

// ErrEmptyInput is returned when a run is started without any Targets.
var ErrEmptyInput = errors.New("no valid target URLs")

// Source produces one FetchResult per Target on the returned channel and
// closes it when done. *fetcher.Fetcher satisfies Source.
type Source interface {
	Stream(ctx context.Context, targets []model.Target) <-chan model.FetchResult
}

// Extractor turns a fetched Target into token occurrences.
// *extract.Extractor satisfies Extractor.
type Extractor interface {
	Extract(target model.Target, outcome model.FetchOutcome) iter.Seq[model.TokenOccurrence]
}

// Event describes one consumed fetch result.
type Event struct {
	// Result is the fetch result that was consumed.
	Result model.FetchResult

	// Tokens is the number of token occurrences extracted from Result.
	Tokens int

	// Completed is the number of results consumed so far, including this one.
	Completed int

	// Total is the number of Targets in the run.
	Total int
}

// Observer is called from the consumer goroutine after each result is merged.
// It must not block for long because it delays the merge of later results.
type Observer func(Event)

// Result is the outcome of a run.
type Result struct {
	Wordlist model.Wordlist
	Summary  *model.RunSummary
}

// Pipeline connects fetching, extraction and frequency filtering.
//
// Fetches run concurrently inside the Source, but every result is merged
// into the frequency table by one consumer, so the table is never shared
// between goroutines.
type Pipeline struct {
	source    Source
	extractor Extractor
	filter    frequency.Options
	observer  Observer
	logger    *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithExtractor replaces the default extract.Extractor.
func WithExtractor(e Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithFilterOptions sets the frequency filter options.
func WithFilterOptions(opts frequency.Options) Option {
	return func(p *Pipeline) {
		p.filter = opts
	}
}

// WithObserver registers a progress callback.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// New creates a Pipeline reading fetch results from source.
func New(source Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: source,
		filter: frequency.DefaultOptions(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.extractor == nil {
		p.extractor = extract.New(extract.WithLogger(p.logger))
	}

	return p
}

// Run fetches every Target, merges the extracted tokens and returns the
// filtered Wordlist together with run statistics.
//
// Running with no Targets fails with ErrEmptyInput. An empty Wordlist is a
// successful result. When ctx is cancelled, Run stops consuming, filters
// what was merged so far and returns that partial Result along with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, targets []model.Target) (*Result, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyInput
	}

	p.logger.Info("starting extraction", "targets", len(targets))

	summary := model.NewRunSummary(len(targets))
	table := frequency.NewTable()
	results := p.source.Stream(ctx, targets)

consume:
	for {
		select {
		case r, ok := <-results:
			if !ok {
				break consume
			}
			p.merge(table, summary, r)
		case <-ctx.Done():
			break consume
		}
	}

	wordlist := frequency.NewFilter(p.filter).Drain(table)

	summary.UniqueTokens = table.Len()
	summary.Words = wordlist.Len()
	summary.Elapsed = time.Since(summary.StartedAt)
	summary.Interrupted = ctx.Err() != nil

	result := &Result{Wordlist: wordlist, Summary: summary}

	if err := ctx.Err(); err != nil {
		p.logger.Warn("extraction interrupted",
			"completed", summary.Completed,
			"targets", summary.Targets,
			"reason", err,
		)
		return result, err
	}

	p.logger.Info("extraction complete",
		"targets", summary.Targets,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed(),
		"unique_tokens", summary.UniqueTokens,
		"words", summary.Words,
		"elapsed", summary.Elapsed,
	)

	return result, nil
}

// merge is the single write point of the frequency table.
func (p *Pipeline) merge(table *frequency.Table, summary *model.RunSummary, r model.FetchResult) {
	n := table.AddAll(p.extractor.Extract(r.Target, r.Outcome))
	summary.Record(r)
	summary.Tokens += n

	if p.observer != nil {
		p.observer(Event{
			Result:    r,
			Tokens:    n,
			Completed: summary.Completed,
			Total:     summary.Targets,
		})
	}
}
