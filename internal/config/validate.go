package config

import (
	"fmt"

	"github.com/tonemill/tonemill/internal/format"
)

// Validate checks the assembled options for errors.
// Returns a slice of error messages (empty if valid). Everything here is
// fatal before any job is built, per the fail-fast contract.
func (o Options) Validate() []string {
	var errs []string

	if o.InPath == "" {
		errs = append(errs, "inpath: required")
	}
	if o.OutFolder == "" {
		errs = append(errs, "outfolder: required")
	}

	if o.Quality < 0 || o.Quality > 100 {
		errs = append(errs, fmt.Sprintf("encoding_quality: must be between 0 and 100, got %d", o.Quality))
	}
	if o.MaxThreads < 1 || o.MaxThreads > 64 {
		errs = append(errs, fmt.Sprintf("max_threads: must be between 1 and 64, got %d", o.MaxThreads))
	}

	if !format.Supported(o.Source, o.Target) {
		errs = append(errs, fmt.Sprintf("unsupported conversion pair: %s -> %s", o.Source, o.Target))
	} else if o.CopyImage && (!o.Source.EmbedsArt() || !o.Target.EmbedsArt()) {
		errs = append(errs, fmt.Sprintf("copy_image: %s -> %s cannot carry embedded cover art", o.Source, o.Target))
	}

	switch o.Verbosity {
	case VerbositySilent, VerbosityNormal, VerbosityVerbose:
	default:
		errs = append(errs, fmt.Sprintf("verbosity: unknown value %q", o.Verbosity))
	}

	return errs
}
