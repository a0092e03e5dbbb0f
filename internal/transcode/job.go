// Package transcode holds the conversion job model, the bounded worker
// pool that executes jobs, and the aggregation of per-job outcomes.
package transcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tonemill/tonemill/internal/format"
	"github.com/tonemill/tonemill/internal/scan"
)

// Job is one source-file-to-output-file conversion unit. All fields except
// the status are fixed at build time; the status is advanced only by the
// worker that owns the job.
type Job struct {
	SourcePath string
	RelPath    string
	OutputPath string
	Source     format.Format
	Target     format.Format
	Quality    int
	CopyImage  bool
	Overwrite  bool

	// SkipReason is set at build time when the job must not be attempted,
	// e.g. because the output already exists and overwrite is off.
	SkipReason string

	status Status
}

// Status returns the job's current status.
func (j *Job) Status() Status { return j.status }

// Advance moves the job to the given status, enforcing the state machine.
func (j *Job) Advance(to Status) error {
	if !j.status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrInvalidTransition, j.status, to, j.RelPath)
	}
	j.status = to
	return nil
}

// BuildConfig carries the validated settings job construction needs.
type BuildConfig struct {
	OutFolder string
	Source    format.Format
	Target    format.Format
	Quality   int
	CopyImage bool
	Overwrite bool
}

// BuildJobs turns discovered entries into jobs, one per entry, in entry
// order. The output path mirrors the entry's relative path under the
// output folder with the extension swapped to the target's. The overwrite
// decision is made here, before any worker runs, so an existing output is
// skipped rather than raced over mid-transcode.
func BuildJobs(entries []scan.Entry, cfg BuildConfig) []*Job {
	jobs := make([]*Job, 0, len(entries))
	for _, e := range entries {
		j := &Job{
			SourcePath: e.Path,
			RelPath:    e.Rel,
			OutputPath: outputPath(cfg.OutFolder, e.Rel, cfg.Target),
			Source:     cfg.Source,
			Target:     cfg.Target,
			Quality:    cfg.Quality,
			CopyImage:  cfg.CopyImage,
			Overwrite:  cfg.Overwrite,
			status:     StatusPending,
		}
		if !cfg.Overwrite {
			if _, err := os.Stat(j.OutputPath); err == nil {
				j.SkipReason = SkipExists
			}
		}
		jobs = append(jobs, j)
	}
	return jobs
}

// Skip reasons recorded in outcomes.
const (
	SkipExists    = "exists"
	SkipCancelled = "cancelled"
)

func outputPath(outFolder, rel string, target format.Format) string {
	ext := filepath.Ext(rel)
	return filepath.Join(outFolder, strings.TrimSuffix(rel, ext)+target.Ext())
}

// EnsureOutputDirs creates every directory the jobs will write into.
// Doing this up front keeps the workers free of mkdir races.
func EnsureOutputDirs(jobs []*Job) error {
	seen := make(map[string]struct{})
	for _, j := range jobs {
		dir := filepath.Dir(j.OutputPath)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return nil
}
