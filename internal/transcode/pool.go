package transcode

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Thread count bounds for the worker pool.
const (
	MinThreads = 1
	MaxThreads = 64
)

// Executor runs one job to completion and reports its outcome. The real
// implementation shells out to external encoder tools; tests substitute
// a fake so pool behavior is checked without any binaries installed.
type Executor interface {
	Execute(ctx context.Context, job *Job) Outcome
}

// Recorder receives every terminal outcome, e.g. the history journal.
type Recorder interface {
	Record(o Outcome) error
}

// Pool dispatches jobs to a bounded set of workers. Jobs are offered in
// discovery order; a worker that finishes one job immediately pulls the
// next pending one.
type Pool struct {
	exec    Executor
	threads int
	logger  *slog.Logger
	journal Recorder // optional, best-effort
}

// NewPool creates a pool with the given number of worker slots. The
// thread count is clamped to [MinThreads, MaxThreads]; configuration
// validation rejects out-of-range values before this point, so the clamp
// only guards direct library use.
func NewPool(exec Executor, threads int, logger *slog.Logger) *Pool {
	if threads < MinThreads {
		threads = MinThreads
	}
	if threads > MaxThreads {
		threads = MaxThreads
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{exec: exec, threads: threads, logger: logger}
}

// WithJournal attaches a recorder that is offered every outcome. Journal
// errors are logged and ignored; they never affect a job's result.
func (p *Pool) WithJournal(j Recorder) *Pool {
	p.journal = j
	return p
}

// Run executes every job and returns the aggregated summary once all jobs
// have reached a terminal state. When ctx is cancelled, workers stop
// pulling new jobs, in-flight subprocesses are terminated, and the
// remaining queue drains to skipped outcomes so accounting stays complete;
// the context error is returned alongside the summary.
func (p *Pool) Run(ctx context.Context, jobs []*Job) (Summary, error) {
	start := time.Now()
	results := NewResults()

	queue := make(chan *Job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	var g errgroup.Group
	for i := 0; i < p.threads; i++ {
		g.Go(func() error {
			for job := range queue {
				p.record(results, p.runOne(ctx, job))
			}
			return nil
		})
	}
	_ = g.Wait() // workers only return nil; per-job failures live in outcomes

	summary := results.Summarize(time.Since(start))
	return summary, ctx.Err()
}

func (p *Pool) runOne(ctx context.Context, job *Job) Outcome {
	if ctx.Err() != nil {
		_ = job.Advance(StatusSkipped)
		p.logger.Debug("skipping job after cancellation", "source", job.RelPath)
		return SkippedOutcome(job, SkipCancelled)
	}

	if job.SkipReason != "" {
		_ = job.Advance(StatusSkipped)
		p.logger.Info("skipping", "source", job.RelPath, "reason", job.SkipReason)
		return SkippedOutcome(job, job.SkipReason)
	}

	if err := job.Advance(StatusRunning); err != nil {
		// A job handed to the pool twice would trip this; treat it as a
		// failure so the run does not report success over broken accounting.
		return Outcome{Job: job, Status: StatusFailed, ErrorDetail: err.Error()}
	}

	p.logger.Info("converting", "source", job.RelPath, "output", job.OutputPath)
	outcome := p.exec.Execute(ctx, job)
	_ = job.Advance(outcome.Status)

	switch outcome.Status {
	case StatusSucceeded:
		if outcome.Warning != "" {
			p.logger.Warn("converted with warning", "source", job.RelPath, "warning", outcome.Warning)
		} else {
			p.logger.Info("converted", "source", job.RelPath, "duration", outcome.Duration)
		}
	case StatusFailed:
		p.logger.Error("conversion failed",
			"source", job.RelPath, "error", outcome.ErrorDetail, "exit_code", outcome.ExitCode)
		if outcome.ToolOutput != "" {
			p.logger.Debug("tool output", "source", job.RelPath, "output", outcome.ToolOutput)
		}
	}
	return outcome
}

func (p *Pool) record(results *Results, o Outcome) {
	results.Record(o)
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(o); err != nil {
		p.logger.Debug("journal write failed", "source", o.Job.RelPath, "error", err)
	}
}
