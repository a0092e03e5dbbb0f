package codec

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tonemill/tonemill/internal/probe"
)

// DecodeResult is what a decoder extracted from the source file besides
// the PCM payload.
type DecodeResult struct {
	Tags Tags

	// ImagePath points at the extracted cover art, or "" when none was
	// found or extraction was not requested.
	ImagePath string

	// Warning records a failed metadata or art extraction that did not
	// prevent the audio payload from decoding.
	Warning string
}

// Decoder turns a source file into a PCM WAV file plus its metadata.
type Decoder interface {
	// Decode writes the source's audio to wavPath. imagePath is where
	// extracted cover art may be written when art extraction is enabled.
	Decode(ctx context.Context, src, wavPath, imagePath string) (DecodeResult, error)
}

// FLACDecoder decodes FLAC files with the reference `flac` binary and
// pulls Vorbis comments and cover art out with `metaflac`.
type FLACDecoder struct {
	runner       Runner
	flacPath     string
	metaflacPath string
	extractImage bool
}

// NewFLACDecoder resolves the flac and metaflac binaries.
func NewFLACDecoder(runner Runner, tools Tools, extractImage bool) (*FLACDecoder, error) {
	flacPath, err := tools.Resolve(ToolFlac)
	if err != nil {
		return nil, err
	}
	metaflacPath, err := tools.Resolve(ToolMetaflac)
	if err != nil {
		return nil, err
	}
	return &FLACDecoder{
		runner:       runner,
		flacPath:     flacPath,
		metaflacPath: metaflacPath,
		extractImage: extractImage,
	}, nil
}

func (d *FLACDecoder) Decode(ctx context.Context, src, wavPath, imagePath string) (DecodeResult, error) {
	if err := probe.FLAC(src); err != nil {
		return DecodeResult{}, err
	}

	// --no-utf8-convert keeps tag bytes untouched; normalization happens
	// once, in ParseVorbisComments.
	if _, err := runChecked(ctx, d.runner, d.flacPath,
		src, "-o", wavPath, "--force", "--no-utf8-convert", "--decode", "--totally-silent",
	); err != nil {
		return DecodeResult{}, fmt.Errorf("decoding %s: %w", src, err)
	}

	result := DecodeResult{Tags: Tags{}}

	tagRes, err := d.runner.Run(ctx, d.metaflacPath, src, "--no-utf8-convert", "--export-tags-to=-")
	switch {
	case err != nil:
		return DecodeResult{}, fmt.Errorf("reading tags of %s: %w", src, err)
	case tagRes.ExitCode != 0:
		result.Warning = (&ToolError{Tool: ToolMetaflac, Result: tagRes}).Error()
	default:
		result.Tags = ParseVorbisComments(tagRes.Stdout)
	}

	if d.extractImage {
		// A file without embedded art makes metaflac exit non-zero; the
		// job goes on without a picture.
		picRes, err := d.runner.Run(ctx, d.metaflacPath, src, "--export-picture-to="+imagePath)
		switch {
		case err != nil:
			return DecodeResult{}, fmt.Errorf("extracting cover art of %s: %w", src, err)
		case picRes.ExitCode != 0:
			result.Warning = joinWarnings(result.Warning, "no cover art extracted: "+
				(&ToolError{Tool: ToolMetaflac, Result: picRes}).Error())
		default:
			result.ImagePath = imagePath
		}
	}

	return result, nil
}

// WAVEDecoder "decodes" WAVE sources by validating and copying them; the
// payload is already PCM. WAVE carries no native tags or art.
type WAVEDecoder struct{}

// NewWAVEDecoder needs no external tools.
func NewWAVEDecoder() *WAVEDecoder { return &WAVEDecoder{} }

func (d *WAVEDecoder) Decode(ctx context.Context, src, wavPath, imagePath string) (DecodeResult, error) {
	if err := probe.WAVE(src); err != nil {
		return DecodeResult{}, err
	}
	if err := copyFile(src, wavPath); err != nil {
		return DecodeResult{}, fmt.Errorf("copying %s: %w", src, err)
	}
	return DecodeResult{Tags: Tags{}}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
