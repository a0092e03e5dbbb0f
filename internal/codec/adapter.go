// Package codec maps conversion format pairs onto external encoder and
// decoder tools and executes them as subprocesses.
package codec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tonemill/tonemill/internal/format"
	"github.com/tonemill/tonemill/internal/transcode"
)

// Adapter executes one conversion job: decode the source to temporary
// PCM, encode the PCM to the output, and carry metadata and cover art
// across where the formats allow it. One adapter serves a whole run;
// it holds no per-job state and is safe for concurrent use.
type Adapter struct {
	dec       Decoder
	enc       Encoder
	copyImage bool
	logger    *slog.Logger
}

// New builds the adapter for a (source, target) pair. Everything that
// can fail a run as a whole fails here: unsupported pairs, cover-art
// requests the formats cannot honor, and missing external binaries.
func New(src, tgt format.Format, quality int, copyImage bool, tools Tools, runner Runner, logger *slog.Logger) (*Adapter, error) {
	if !format.Supported(src, tgt) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnsupportedPair, src, tgt)
	}
	if copyImage && (!src.EmbedsArt() || !tgt.EmbedsArt()) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrArtUnsupported, src, tgt)
	}
	if logger == nil {
		logger = slog.Default()
	}

	extractImage := copyImage && tgt.EmbedsArt()

	var dec Decoder
	var err error
	switch src {
	case format.FLAC:
		dec, err = NewFLACDecoder(runner, tools, extractImage)
	case format.Wave:
		dec = NewWAVEDecoder()
	}
	if err != nil {
		return nil, err
	}

	var enc Encoder
	switch tgt {
	case format.Opus:
		enc, err = NewOpusEncoder(runner, tools, quality)
	case format.AAC:
		enc, err = NewNeroAACEncoder(runner, tools, quality)
	case format.FLAC:
		enc, err = NewFLACEncoder(runner, tools, quality)
	case format.Wave:
		enc = NewWAVEEncoder()
	}
	if err != nil {
		return nil, err
	}

	return &Adapter{dec: dec, enc: enc, copyImage: copyImage, logger: logger}, nil
}

// Execute runs a single job to its terminal outcome. A failed primary
// step removes any partially written output file; a failed secondary
// metadata step leaves the outcome succeeded but sets a warning.
func (a *Adapter) Execute(ctx context.Context, job *transcode.Job) transcode.Outcome {
	started := time.Now()

	outcome := func(o transcode.Outcome) transcode.Outcome {
		o.Job = job
		o.StartedAt = started
		o.Duration = time.Since(started)
		return o
	}

	if job.Overwrite {
		if err := removeIfExists(job.OutputPath); err != nil {
			return outcome(failed(err))
		}
	}

	tmpWAV, err := tempFile("tonemill-*.wav")
	if err != nil {
		return outcome(failed(err))
	}
	defer discard(tmpWAV, a.logger)

	var tmpImage string
	if a.copyImage {
		tmpImage, err = tempFile("tonemill-cover-*")
		if err != nil {
			return outcome(failed(err))
		}
		defer discard(tmpImage, a.logger)
	}

	dec, err := a.dec.Decode(ctx, job.SourcePath, tmpWAV, tmpImage)
	if err != nil {
		return outcome(failed(err))
	}

	if err := a.enc.Encode(ctx, tmpWAV, job.OutputPath, dec.Tags, dec.ImagePath); err != nil {
		// Mandatory cleanup: a half-written output must not survive.
		if rmErr := removeIfExists(job.OutputPath); rmErr != nil {
			a.logger.Error("could not remove partial output", "output", job.OutputPath, "error", rmErr)
		}
		return outcome(failed(err))
	}

	warning := dec.Warning
	if tagger, ok := a.enc.(Tagger); ok {
		if err := tagger.Tag(ctx, job.OutputPath, dec.Tags, dec.ImagePath); err != nil {
			warning = joinWarnings(warning, err.Error())
		}
	}

	var bytesOut int64
	if fi, err := os.Stat(job.OutputPath); err == nil {
		bytesOut = fi.Size()
	}

	return outcome(transcode.Outcome{
		Status:   transcode.StatusSucceeded,
		Warning:  warning,
		BytesOut: bytesOut,
	})
}

// failed builds a failure outcome, lifting exit code and tool output out
// of a ToolError when one is in the chain.
func failed(err error) transcode.Outcome {
	o := transcode.Outcome{Status: transcode.StatusFailed, ErrorDetail: err.Error()}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		o.ExitCode = toolErr.Result.ExitCode
		o.ToolOutput = snippet(toolErr.Result.Stderr + toolErr.Result.Stdout)
	}
	return o
}

func tempFile(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func discard(path string, logger *slog.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Debug("could not remove temp file", "path", path, "error", err)
	}
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
