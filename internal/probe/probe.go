// Package probe performs cheap sanity checks on input files before they
// are handed to an external tool, catching mislabeled or truncated files
// without spawning a subprocess.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

var (
	// ErrNotFLAC is returned when a file does not start with the fLaC
	// stream marker.
	ErrNotFLAC = errors.New("not a valid FLAC file")

	// ErrNotWAVE is returned when a file is not a readable RIFF/WAVE file.
	ErrNotWAVE = errors.New("not a valid WAVE file")
)

var flacMarker = []byte("fLaC")

// FLAC checks that path begins with the FLAC stream marker.
func FLAC(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("probing %s: %w", path, err)
	}
	defer f.Close()

	marker := make([]byte, len(flacMarker))
	if _, err := f.Read(marker); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFLAC, path)
	}
	if !bytes.Equal(marker, flacMarker) {
		return fmt.Errorf("%w: %s", ErrNotFLAC, path)
	}
	return nil
}

// WAVE checks that path is a decodable RIFF/WAVE file. Only the headers
// are read; the PCM payload is not touched.
func WAVE(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("probing %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return fmt.Errorf("%w: %s", ErrNotWAVE, path)
	}
	return nil
}
