package model

import "time"

// FailedTarget records a Target that produced a failure outcome.
type FailedTarget struct {
	URL        string
	Reason     FailureReason
	StatusCode int
	Message    string
}

// RunSummary collects the statistics of one wordlist extraction run.
// It is used for the final console line and the Markdown report.
type RunSummary struct {
	// StartedAt is the time the pipeline started.
	StartedAt time.Time

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Targets is the number of Targets handed to the pipeline.
	Targets int

	// Completed is the number of Targets whose outcome was consumed.
	// It is lower than Targets only when the run was interrupted.
	Completed int

	// Succeeded is the number of successful fetches.
	Succeeded int

	// Failures counts failed fetches per reason.
	Failures map[FailureReason]int

	// FailedTargets lists each failed Target in completion order.
	FailedTargets []FailedTarget

	// Tokens is the total number of token occurrences ingested.
	Tokens int

	// UniqueTokens is the number of distinct words seen before filtering.
	UniqueTokens int

	// Words is the number of words in the final Wordlist.
	Words int

	// InvalidInputs is the number of raw URL entries that were dropped.
	InvalidInputs int

	// UnreadableFiles is the number of URL files that could not be read.
	UnreadableFiles int

	// Interrupted is true when the run was cancelled before all Targets completed.
	Interrupted bool
}

// NewRunSummary creates an empty summary for the given number of targets.
func NewRunSummary(targets int) *RunSummary {
	return &RunSummary{
		StartedAt: time.Now(),
		Targets:   targets,
		Failures:  make(map[FailureReason]int),
	}
}

// Failed returns the total number of failed fetches.
func (s *RunSummary) Failed() int {
	total := 0
	for _, n := range s.Failures {
		total += n
	}
	return total
}

// Record accounts for one consumed fetch result.
func (s *RunSummary) Record(result FetchResult) {
	s.Completed++
	if result.Outcome.OK() {
		s.Succeeded++
		return
	}

	s.Failures[result.Outcome.Reason]++

	msg := ""
	if result.Outcome.Err != nil {
		msg = result.Outcome.Err.Error()
	}
	s.FailedTargets = append(s.FailedTargets, FailedTarget{
		URL:        result.Target.URL(),
		Reason:     result.Outcome.Reason,
		StatusCode: result.Outcome.StatusCode,
		Message:    msg,
	})
}
