// Package config holds the run options assembled from CLI flags and the
// optional TOML configuration file.
package config

import (
	"log/slog"

	"github.com/tonemill/tonemill/internal/format"
)

// Verbosity selects how chatty a run is.
type Verbosity string

const (
	VerbositySilent  Verbosity = "silent"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
)

// LogLevel maps verbosity to the slog level the run logger uses. Silent
// still surfaces errors; the final summary is printed regardless.
func (v Verbosity) LogLevel() slog.Level {
	switch v {
	case VerbositySilent:
		return slog.LevelError
	case VerbosityVerbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// ToolPaths are optional absolute-path overrides for the external
// binaries, normally resolved from PATH.
type ToolPaths struct {
	Flac       string
	Metaflac   string
	Opusenc    string
	NeroAacEnc string
	NeroAacTag string
}

// Options is the complete, validated configuration of one run. It is
// immutable after CLI parsing; the scheduler and every worker share it
// read-only.
type Options struct {
	InPath    string
	OutFolder string

	Source    format.Format
	Target    format.Format
	Quality   int
	Recursive bool
	Overwrite bool
	CopyImage bool

	MaxThreads int
	Verbosity  Verbosity
	DryRun     bool

	HistoryEnabled bool
	HistoryPath    string

	Tools ToolPaths
}

// Defaults returns the built-in option values, before the config file
// and CLI flags are applied.
func Defaults() Options {
	return Options{
		OutFolder:      "~",
		Source:         format.FLAC,
		Target:         format.Opus,
		Quality:        50,
		MaxThreads:     4,
		Verbosity:      VerbosityNormal,
		HistoryEnabled: true,
	}
}
