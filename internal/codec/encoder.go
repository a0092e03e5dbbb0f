package codec

import (
	"context"
	"fmt"

	"github.com/tonemill/tonemill/internal/format"
)

// Encoder writes the final output file from decoded PCM. Encoders embed
// whatever metadata their primary command line supports; formats needing
// a separate tagging pass also implement Tagger.
type Encoder interface {
	Encode(ctx context.Context, wavPath, outPath string, tags Tags, imagePath string) error
}

// Tagger is the secondary metadata/art step run after a successful
// encode. A Tagger failure degrades the job to succeeded-with-warning
// because the audio payload is already in place.
type Tagger interface {
	Tag(ctx context.Context, outPath string, tags Tags, imagePath string) error
}

// OpusEncoder encodes with opusenc from opus-tools. Tags and cover art
// ride along on the primary command line.
type OpusEncoder struct {
	runner  Runner
	path    string
	quality int
}

// NewOpusEncoder resolves the opusenc binary.
func NewOpusEncoder(runner Runner, tools Tools, quality int) (*OpusEncoder, error) {
	path, err := tools.Resolve(ToolOpusenc)
	if err != nil {
		return nil, err
	}
	return &OpusEncoder{runner: runner, path: path, quality: quality}, nil
}

func (e *OpusEncoder) Encode(ctx context.Context, wavPath, outPath string, tags Tags, imagePath string) error {
	args := []string{"--comp", format.OpusComp(e.quality)}
	for _, k := range tags.SortedKeys() {
		args = append(args, "--comment", k+"="+tags[k])
	}
	if imagePath != "" {
		args = append(args, "--picture", imagePath)
	}
	args = append(args, wavPath, outPath)

	if _, err := runChecked(ctx, e.runner, e.path, args...); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}

// FLACEncoder re-encodes PCM to FLAC, embedding tags and art inline.
type FLACEncoder struct {
	runner  Runner
	path    string
	quality int
}

// NewFLACEncoder resolves the flac binary.
func NewFLACEncoder(runner Runner, tools Tools, quality int) (*FLACEncoder, error) {
	path, err := tools.Resolve(ToolFlac)
	if err != nil {
		return nil, err
	}
	return &FLACEncoder{runner: runner, path: path, quality: quality}, nil
}

func (e *FLACEncoder) Encode(ctx context.Context, wavPath, outPath string, tags Tags, imagePath string) error {
	args := []string{"--totally-silent", format.FLACCompressionLevel(e.quality), "-o", outPath}
	for _, k := range tags.SortedKeys() {
		args = append(args, "-T", k+"="+tags[k])
	}
	if imagePath != "" {
		args = append(args, "--picture="+imagePath)
	}
	args = append(args, wavPath)

	if _, err := runChecked(ctx, e.runner, e.path, args...); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}

// NeroAACEncoder encodes with neroAacEnc; metadata and art go in through
// a second neroAacTag invocation, which is the Tagger step.
type NeroAACEncoder struct {
	runner  Runner
	encPath string
	tagPath string
	quality int
}

// NewNeroAACEncoder resolves both Nero binaries up front even though
// tagging is optional, so a half-installed toolchain is caught before
// any job runs.
func NewNeroAACEncoder(runner Runner, tools Tools, quality int) (*NeroAACEncoder, error) {
	encPath, err := tools.Resolve(ToolNeroAacEnc)
	if err != nil {
		return nil, err
	}
	tagPath, err := tools.Resolve(ToolNeroAacTag)
	if err != nil {
		return nil, err
	}
	return &NeroAACEncoder{runner: runner, encPath: encPath, tagPath: tagPath, quality: quality}, nil
}

func (e *NeroAACEncoder) Encode(ctx context.Context, wavPath, outPath string, tags Tags, imagePath string) error {
	if _, err := runChecked(ctx, e.runner, e.encPath,
		"-if", wavPath, "-of", outPath, "-q", format.NeroQuality(e.quality),
	); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}

func (e *NeroAACEncoder) Tag(ctx context.Context, outPath string, tags Tags, imagePath string) error {
	nero := tags.ToNero()
	if len(nero) == 0 && imagePath == "" {
		return nil
	}

	args := []string{outPath}
	for _, k := range nero.SortedKeys() {
		args = append(args, "-meta:"+k+"="+nero[k])
	}
	if imagePath != "" {
		args = append(args, "-add-cover:front:"+imagePath)
	}

	if _, err := runChecked(ctx, e.runner, e.tagPath, args...); err != nil {
		return fmt.Errorf("tagging %s: %w", outPath, err)
	}
	return nil
}

// WAVEEncoder writes the decoded PCM out as-is. WAVE cannot carry tags
// or art, so both are dropped.
type WAVEEncoder struct{}

// NewWAVEEncoder needs no external tools.
func NewWAVEEncoder() *WAVEEncoder { return &WAVEEncoder{} }

func (e *WAVEEncoder) Encode(ctx context.Context, wavPath, outPath string, tags Tags, imagePath string) error {
	if err := copyFile(wavPath, outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
