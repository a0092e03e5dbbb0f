package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tonemill/tonemill/internal/codec"
	"github.com/tonemill/tonemill/internal/config"
	"github.com/tonemill/tonemill/internal/history"
	"github.com/tonemill/tonemill/internal/scan"
	"github.com/tonemill/tonemill/internal/transcode"
)

// run executes a full conversion: discover, build jobs, dispatch to the
// pool, and print the summary. Log lines go to stderr; the plan and the
// summary go to out (stdout).
func run(ctx context.Context, opts config.Options, out io.Writer) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: opts.Verbosity.LogLevel(),
	}))

	outFolder, err := scan.ExpandHome(opts.OutFolder)
	if err != nil {
		return err
	}

	entries, err := scan.Resolve(opts.InPath, opts.Recursive, opts.Source.Ext())
	if err != nil {
		if errors.Is(err, scan.ErrNoMatches) {
			fmt.Fprintf(out, "no %s files found, nothing to do\n", opts.Source)
		}
		return err
	}
	logger.Info("discovered files", "count", len(entries),
		"source", opts.Source.String(), "target", opts.Target.String())

	jobs := transcode.BuildJobs(entries, transcode.BuildConfig{
		OutFolder: outFolder,
		Source:    opts.Source,
		Target:    opts.Target,
		Quality:   opts.Quality,
		CopyImage: opts.CopyImage,
		Overwrite: opts.Overwrite,
	})

	if opts.DryRun {
		printPlan(out, jobs)
		return nil
	}

	if err := transcode.EnsureOutputDirs(jobs); err != nil {
		return err
	}

	adapter, err := codec.New(opts.Source, opts.Target, opts.Quality, opts.CopyImage,
		toolsFrom(opts.Tools), codec.ExecRunner{}, logger)
	if err != nil {
		return err
	}

	pool := transcode.NewPool(adapter, opts.MaxThreads, logger)
	if opts.HistoryEnabled {
		if journal := openJournal(opts, logger); journal != nil {
			defer journal.Close()
			pool = pool.WithJournal(journal)
		}
	}

	summary, runErr := pool.Run(ctx, jobs)
	fmt.Fprintln(out, summary.Render())

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d jobs failed", summary.Failed, summary.Total())
	}
	return nil
}

func printPlan(out io.Writer, jobs []*transcode.Job) {
	for _, j := range jobs {
		if j.SkipReason != "" {
			fmt.Fprintf(out, "skip  %s (%s)\n", j.RelPath, j.SkipReason)
			continue
		}
		fmt.Fprintf(out, "plan  %s -> %s\n", j.RelPath, j.OutputPath)
	}
	fmt.Fprintf(out, "%d file(s) planned\n", len(jobs))
}

// openJournal opens the history journal best-effort; a broken journal
// downgrades to a log line rather than failing the run.
func openJournal(opts config.Options, logger *slog.Logger) *history.Journal {
	path := opts.HistoryPath
	if path == "" {
		path = history.DefaultPath()
	}
	journal, err := history.Open(path)
	if err != nil {
		logger.Debug("history journal unavailable", "path", path, "error", err)
		return nil
	}
	return journal
}

func toolsFrom(t config.ToolPaths) codec.Tools {
	return codec.Tools{
		Flac:       t.Flac,
		Metaflac:   t.Metaflac,
		Opusenc:    t.Opusenc,
		NeroAacEnc: t.NeroAacEnc,
		NeroAacTag: t.NeroAacTag,
	}
}
