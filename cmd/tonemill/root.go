package main

import (
	"github.com/spf13/cobra"

	"github.com/tonemill/tonemill/internal/config"
	"github.com/tonemill/tonemill/internal/format"
)

var version = "dev"

// rootFlags holds the raw CLI flag values; buildOptions folds them over
// the config file and built-in defaults.
type rootFlags struct {
	outFolder    string
	quality      int
	recursive    bool
	force        bool
	copyImage    bool
	sourceFormat string
	targetFormat string
	maxThreads   int
	silent       bool
	verbose      bool
	configPath   string
	dryRun       bool
	noHistory    bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "tonemill [flags] <inpath>",
	Short: "Convert audio libraries between FLAC/WAVE and Opus/AAC/FLAC/WAVE",
	Long: `tonemill - parallel audio library transcoder

Discovers audio files under a path, converts each one with the external
encoder tools (flac, metaflac, opusenc, neroAacEnc), and mirrors the
source folder structure under the output folder. Conversions run on a
bounded worker pool; metadata tags and, optionally, embedded cover art
are carried across where the target format supports them.

The exit code is 0 only when every file converted or was skipped.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd, args[0])
		if err != nil {
			return err
		}
		return run(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.outFolder, "outfolder", "o", "~", "target folder for the converted files")
	f.IntVarP(&flags.quality, "encoding_quality", "q", 50, "encoder quality setting (0-100)")
	f.BoolVarP(&flags.recursive, "recursive", "r", false, "convert files from subfolders")
	f.BoolVarP(&flags.force, "force_overwrite", "f", false, "overwrite existing output files")
	f.BoolVarP(&flags.copyImage, "copy_image", "i", false, "copy the embedded cover image")
	f.StringVarP(&flags.sourceFormat, "source_format", "s", "flac", "source format {flac,wave}")
	f.StringVarP(&flags.targetFormat, "target_format", "t", "opus", "target format {opus,aac,flac,wave}")
	f.IntVar(&flags.maxThreads, "max_threads", 4, "maximum number of parallel conversions (1-64)")
	f.BoolVar(&flags.silent, "silent", false, "suppress per-file output")
	f.BoolVar(&flags.verbose, "verbose", false, "output detailed information")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show the conversion plan without executing it")
	f.BoolVar(&flags.noHistory, "no-history", false, "do not record this run in the history journal")

	// Shared with the doctor and history subcommands.
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file (TOML)")

	rootCmd.MarkFlagsMutuallyExclusive("silent", "verbose")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tonemill {{.Version}}\n")
}

// buildOptions assembles the run options with the precedence order
// built-in defaults < config file < CLI flags.
func buildOptions(cmd *cobra.Command, inpath string) (config.Options, error) {
	opts := config.Defaults()

	path := flags.configPath
	if path == "" {
		path = config.Discover()
	}
	if path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return opts, err
		}
		opts = file.Apply(opts)
	}

	fs := cmd.Flags()
	if fs.Changed("outfolder") {
		opts.OutFolder = flags.outFolder
	}
	if fs.Changed("encoding_quality") {
		opts.Quality = flags.quality
	}
	if fs.Changed("max_threads") {
		opts.MaxThreads = flags.maxThreads
	}
	if fs.Changed("source_format") {
		src, err := format.ParseSource(flags.sourceFormat)
		if err != nil {
			return opts, err
		}
		opts.Source = src
	}
	if fs.Changed("target_format") {
		tgt, err := format.ParseTarget(flags.targetFormat)
		if err != nil {
			return opts, err
		}
		opts.Target = tgt
	}

	opts.InPath = inpath
	opts.Recursive = flags.recursive
	opts.Overwrite = flags.force
	opts.CopyImage = flags.copyImage
	opts.DryRun = flags.dryRun
	if flags.noHistory {
		opts.HistoryEnabled = false
	}
	switch {
	case flags.silent:
		opts.Verbosity = config.VerbositySilent
	case flags.verbose:
		opts.Verbosity = config.VerbosityVerbose
	}

	if errs := opts.Validate(); len(errs) > 0 {
		return opts, &config.ConfigError{Path: path, Errors: errs}
	}
	return opts, nil
}

// subcommandOptions loads defaults plus the config file for subcommands
// that need file-level settings but none of the run flags.
func subcommandOptions() (config.Options, error) {
	opts := config.Defaults()
	path := flags.configPath
	if path == "" {
		path = config.Discover()
	}
	if path == "" {
		return opts, nil
	}
	file, err := config.LoadFile(path)
	if err != nil {
		return opts, err
	}
	return file.Apply(opts), nil
}
