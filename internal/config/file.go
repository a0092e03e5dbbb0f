package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/tonemill/tonemill/internal/format"
)

// File is the optional TOML configuration file. Every field overrides a
// built-in default; CLI flags in turn override the file.
type File struct {
	Tools    ToolsSection    `toml:"tools"`
	Defaults DefaultsSection `toml:"defaults"`
	History  HistorySection  `toml:"history"`
}

// ToolsSection overrides the paths of the external binaries, the
// portable equivalent of the bundled bin/ directory some installations
// ship.
type ToolsSection struct {
	Flac       string `toml:"flac"`
	Metaflac   string `toml:"metaflac"`
	Opusenc    string `toml:"opusenc"`
	NeroAacEnc string `toml:"nero_aac_enc"`
	NeroAacTag string `toml:"nero_aac_tag"`
}

// DefaultsSection overrides built-in run defaults. Pointer fields
// distinguish "not set" from zero values.
type DefaultsSection struct {
	Quality      *int   `toml:"quality"`
	SourceFormat string `toml:"source_format"`
	TargetFormat string `toml:"target_format"`
	OutFolder    string `toml:"outfolder"`
	MaxThreads   *int   `toml:"max_threads"`
}

// HistorySection configures the transcode journal.
type HistorySection struct {
	Enabled *bool  `toml:"enabled"`
	Path    string `toml:"path"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadFile reads and parses a config file, substituting ${VAR}
// placeholders from the environment. Unresolved placeholders are an
// error: silently keeping the literal text would smuggle "${HOME}" into
// a path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var f File
	if _, err := toml.Decode(content, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &f, nil
}

// substituteEnvVars replaces ${VAR} with environment values, collecting
// the names of variables that are not set.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		missing = append(missing, name)
		return match
	})
	return out, missing
}

// Apply folds the file's settings into opts, returning the result.
// Called on top of Defaults() and before CLI flags, giving the
// precedence order: built-ins < file < flags.
func (f *File) Apply(opts Options) Options {
	if f.Defaults.Quality != nil {
		opts.Quality = *f.Defaults.Quality
	}
	if f.Defaults.SourceFormat != "" {
		opts.Source = format.Format(f.Defaults.SourceFormat)
	}
	if f.Defaults.TargetFormat != "" {
		opts.Target = format.Format(f.Defaults.TargetFormat)
	}
	if f.Defaults.OutFolder != "" {
		opts.OutFolder = f.Defaults.OutFolder
	}
	if f.Defaults.MaxThreads != nil {
		opts.MaxThreads = *f.Defaults.MaxThreads
	}
	if f.History.Enabled != nil {
		opts.HistoryEnabled = *f.History.Enabled
	}
	if f.History.Path != "" {
		opts.HistoryPath = f.History.Path
	}
	if f.Tools.Flac != "" {
		opts.Tools.Flac = f.Tools.Flac
	}
	if f.Tools.Metaflac != "" {
		opts.Tools.Metaflac = f.Tools.Metaflac
	}
	if f.Tools.Opusenc != "" {
		opts.Tools.Opusenc = f.Tools.Opusenc
	}
	if f.Tools.NeroAacEnc != "" {
		opts.Tools.NeroAacEnc = f.Tools.NeroAacEnc
	}
	if f.Tools.NeroAacTag != "" {
		opts.Tools.NeroAacTag = f.Tools.NeroAacTag
	}
	return opts
}
