package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tonemill/tonemill/internal/codec"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external encoder tools are installed",
	Long: `Checks each external tool tonemill can invoke: whether it resolves
(from the [tools] config section or PATH) and, where the tool supports
it, its reported version. Informational only; missing Nero binaries do
not matter unless you convert to AAC.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		opts, err := subcommandOptions()
		if err != nil {
			return err
		}
		tools := toolsFrom(opts.Tools)

		runner := codec.ExecRunner{}
		for _, name := range codec.AllTools() {
			path, err := tools.Resolve(name)
			if err != nil {
				fmt.Fprintf(out, "%-10s  not found\n", name)
				continue
			}
			if ver := probeVersion(cmd, runner, path); ver != "" {
				fmt.Fprintf(out, "%-10s  %s (%s)\n", name, path, ver)
			} else {
				fmt.Fprintf(out, "%-10s  %s\n", name, path)
			}
		}
		return nil
	},
}

// probeVersion asks a tool for its version string. The Nero tools have
// no --version flag and just print a banner on bad usage, so any first
// output line is good enough.
func probeVersion(cmd *cobra.Command, runner codec.ExecRunner, path string) string {
	res, err := runner.Run(cmd.Context(), path, "--version")
	if err != nil {
		return ""
	}
	line := res.Stdout
	if line == "" {
		line = res.Stderr
	}
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
