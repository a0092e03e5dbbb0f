package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonemill/tonemill/internal/format"
	"github.com/tonemill/tonemill/internal/scan"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// executorFunc adapts a function to the Executor interface.
type executorFunc func(ctx context.Context, job *Job) Outcome

func (f executorFunc) Execute(ctx context.Context, job *Job) Outcome { return f(ctx, job) }

// makeJobs builds n pending jobs without touching the filesystem.
func makeJobs(n int) []*Job {
	jobs := make([]*Job, n)
	for i := range jobs {
		jobs[i] = &Job{
			SourcePath: fmt.Sprintf("/music/%03d.flac", i),
			RelPath:    fmt.Sprintf("%03d.flac", i),
			OutputPath: fmt.Sprintf("/out/%03d.opus", i),
			Source:     format.FLAC,
			Target:     format.Opus,
			status:     StatusPending,
		}
	}
	return jobs
}

func succeedAll(ctx context.Context, job *Job) Outcome {
	return Outcome{Job: job, Status: StatusSucceeded}
}

func TestPool_AllJobsReachTerminalState(t *testing.T) {
	jobs := makeJobs(20)
	pool := NewPool(executorFunc(succeedAll), 4, testLogger())

	summary, err := pool.Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Succeeded)
	assert.Equal(t, 20, summary.Total())
	for _, j := range jobs {
		assert.True(t, j.Status().IsTerminal(), "job %s left in %s", j.RelPath, j.Status())
	}
}

func TestPool_ExactlyOnceExecution(t *testing.T) {
	for _, threads := range []int{1, 8, 64} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			jobs := makeJobs(50)
			var executions sync.Map
			exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
				count, _ := executions.LoadOrStore(job.RelPath, new(int32))
				atomic.AddInt32(count.(*int32), 1)
				return Outcome{Job: job, Status: StatusSucceeded}
			})

			summary, err := NewPool(exec, threads, testLogger()).Run(context.Background(), jobs)
			require.NoError(t, err)
			assert.Equal(t, 50, summary.Total())

			executed := 0
			executions.Range(func(_, v any) bool {
				executed++
				assert.Equal(t, int32(1), atomic.LoadInt32(v.(*int32)))
				return true
			})
			assert.Equal(t, 50, executed)
		})
	}
}

func TestPool_IdenticalCountsAcrossThreadCounts(t *testing.T) {
	// Job index decides the outcome, so aggregate counts must be identical
	// no matter how many workers raced over the queue.
	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		if job.RelPath < "010.flac" {
			return Outcome{Job: job, Status: StatusFailed, ErrorDetail: "bad file"}
		}
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	var base Summary
	for i, threads := range []int{1, 8} {
		summary, err := NewPool(exec, threads, testLogger()).Run(context.Background(), makeJobs(40))
		require.NoError(t, err)
		if i == 0 {
			base = summary
			continue
		}
		assert.Equal(t, base.Succeeded, summary.Succeeded)
		assert.Equal(t, base.Skipped, summary.Skipped)
		assert.Equal(t, base.Failed, summary.Failed)
	}
	assert.Equal(t, 10, base.Failed)
	assert.Equal(t, 30, base.Succeeded)
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const threads = 3
	var inFlight, peak int32

	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	_, err := NewPool(exec, threads, testLogger()).Run(context.Background(), makeJobs(30))
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(threads))
}

func TestPool_PreSkippedJobsBypassExecutor(t *testing.T) {
	jobs := makeJobs(5)
	jobs[1].SkipReason = SkipExists
	jobs[3].SkipReason = SkipExists

	var executed int32
	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		atomic.AddInt32(&executed, 1)
		assert.Empty(t, job.SkipReason)
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	summary, err := NewPool(exec, 2, testLogger()).Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, int32(3), atomic.LoadInt32(&executed))
	assert.Equal(t, StatusSkipped, jobs[1].Status())
}

func TestPool_FailureIsolation(t *testing.T) {
	jobs := makeJobs(10)
	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		if job.RelPath == "004.flac" {
			return Outcome{Job: job, Status: StatusFailed, ErrorDetail: "encoder died"}
		}
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	summary, err := NewPool(exec, 2, testLogger()).Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Succeeded, "one failure must not stop other jobs")
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.OK())
}

func TestPool_FIFODispatchWithSingleThread(t *testing.T) {
	jobs := makeJobs(10)
	var order []string
	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		order = append(order, job.RelPath)
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	_, err := NewPool(exec, 1, testLogger()).Run(context.Background(), jobs)
	require.NoError(t, err)

	want := make([]string, len(jobs))
	for i, j := range jobs {
		want[i] = j.RelPath
	}
	assert.Equal(t, want, order, "single worker executes in discovery order")
}

func TestPool_CancellationDrainsQueueToSkipped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	jobs := makeJobs(40)

	var started int32
	exec := executorFunc(func(ctx context.Context, job *Job) Outcome {
		if atomic.AddInt32(&started, 1) == 2 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return Outcome{Job: job, Status: StatusSucceeded}
	})

	summary, err := NewPool(exec, 2, testLogger()).Run(ctx, jobs)
	require.ErrorIs(t, err, context.Canceled)

	// Accounting stays exactly-once: every job is either done or skipped.
	assert.Equal(t, 40, summary.Total())
	assert.Positive(t, summary.Skipped, "queued jobs drain to skipped on cancel")
	for _, j := range jobs {
		assert.True(t, j.Status().IsTerminal(), "job %s left in %s", j.RelPath, j.Status())
	}
}

// journalSpy records outcomes handed to the journal.
type journalSpy struct {
	mu       sync.Mutex
	recorded []Outcome
	fail     bool
}

func (j *journalSpy) Record(o Outcome) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return fmt.Errorf("disk full")
	}
	j.recorded = append(j.recorded, o)
	return nil
}

func TestPool_JournalReceivesEveryOutcome(t *testing.T) {
	spy := &journalSpy{}
	jobs := makeJobs(12)
	jobs[0].SkipReason = SkipExists

	summary, err := NewPool(executorFunc(succeedAll), 4, testLogger()).WithJournal(spy).Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, summary.Total(), len(spy.recorded))
}

func TestPool_JournalFailureDoesNotAffectRun(t *testing.T) {
	spy := &journalSpy{fail: true}
	summary, err := NewPool(executorFunc(succeedAll), 4, testLogger()).WithJournal(spy).Run(context.Background(), makeJobs(5))
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Succeeded)
	assert.True(t, summary.OK())
}

func TestPool_ClampsThreadCount(t *testing.T) {
	summary, err := NewPool(executorFunc(succeedAll), 0, testLogger()).Run(context.Background(), makeJobs(3))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)

	summary, err = NewPool(executorFunc(succeedAll), 1000, testLogger()).Run(context.Background(), makeJobs(3))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Succeeded)
}

func TestPool_RealJobsEndToEnd(t *testing.T) {
	// Wire the pool against jobs built from a real directory tree to cover
	// the discovery -> build -> dispatch -> summary path in one place.
	src := t.TempDir()
	out := t.TempDir()
	for _, p := range []string{"a.flac", "sub/b.flac"} {
		full := filepath.Join(src, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("fLaC"), 0o644))
	}

	entries, err := scan.Resolve(src, true, ".flac")
	require.NoError(t, err)
	jobs := BuildJobs(entries, BuildConfig{OutFolder: out, Source: format.FLAC, Target: format.Opus, Quality: 50})
	require.NoError(t, EnsureOutputDirs(jobs))

	summary, err := NewPool(executorFunc(succeedAll), 8, testLogger()).Run(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.True(t, summary.OK())
}
