package transcode

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Results aggregates job outcomes. Record is called once per job from
// whichever worker finished it, so all mutation is mutex-guarded;
// completion order does not have to match dispatch order.
type Results struct {
	mu        sync.Mutex
	succeeded int
	skipped   int
	failed    int
	warnings  int
	failures  []Outcome
}

// NewResults creates an empty aggregator.
func NewResults() *Results {
	return &Results{}
}

// Record adds one terminal outcome to the running totals.
func (r *Results) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch o.Status {
	case StatusSucceeded:
		r.succeeded++
	case StatusSkipped:
		r.skipped++
	case StatusFailed:
		r.failed++
		r.failures = append(r.failures, o)
	}
	if o.Warning != "" {
		r.warnings++
	}
}

// Summary is a point-in-time snapshot of the aggregated counts.
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
	Warnings  int
	Failures  []Outcome
	Elapsed   time.Duration
}

// Summarize returns the final tallies. elapsed is the run's wall clock.
func (r *Results) Summarize(elapsed time.Duration) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Summary{
		Succeeded: r.succeeded,
		Skipped:   r.skipped,
		Failed:    r.failed,
		Warnings:  r.warnings,
		Failures:  append([]Outcome(nil), r.failures...),
		Elapsed:   elapsed,
	}
}

// Total is the number of jobs that reached a terminal state.
func (s Summary) Total() int { return s.Succeeded + s.Skipped + s.Failed }

// OK reports whether the run as a whole succeeded: every job either
// succeeded or was skipped.
func (s Summary) OK() bool { return s.Failed == 0 }

// Render formats the summary for the end of a run. Failure details are
// included so even a silent run explains its exit code.
func (s Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d converted, %d skipped, %d failed (%d files in %s)",
		s.Succeeded, s.Skipped, s.Failed, s.Total(), s.Elapsed.Round(time.Millisecond))
	if s.Warnings > 0 {
		fmt.Fprintf(&b, ", %d warnings", s.Warnings)
	}
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "\n  failed: %s: %s", f.Job.RelPath, f.ErrorDetail)
	}
	return b.String()
}
