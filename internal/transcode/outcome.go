package transcode

import "time"

// Outcome is the terminal result of one job. It is created by the worker
// that ran the job and owned by the aggregator afterwards.
type Outcome struct {
	Job    *Job
	Status Status

	// Reason explains a skipped outcome ("exists", "cancelled").
	Reason string

	// ErrorDetail and ToolOutput describe a failed outcome. ToolOutput is
	// the captured stderr/stdout of the external tool, ExitCode its exit
	// status (0 when the failure was not a tool exit).
	ErrorDetail string
	ToolOutput  string
	ExitCode    int

	// Warning is set on a succeeded outcome whose secondary metadata or
	// cover-art step failed.
	Warning string

	StartedAt time.Time
	Duration  time.Duration
	BytesOut  int64
}

// Succeeded reports whether the job's audio payload was written.
func (o Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// SkippedOutcome builds the outcome for a job that was never attempted.
func SkippedOutcome(job *Job, reason string) Outcome {
	return Outcome{Job: job, Status: StatusSkipped, Reason: reason, StartedAt: time.Now()}
}
