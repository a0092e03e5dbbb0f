package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tonemill/tonemill/internal/codec"
	"github.com/tonemill/tonemill/internal/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported conversion pairs and the tools they require",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Supported conversions:")
		for _, p := range format.Pairs() {
			tools := codec.RequiredTools(p.Source, p.Target)
			note := "no external tools"
			if len(tools) > 0 {
				note = strings.Join(tools, ", ")
			}
			fmt.Fprintf(out, "  %-5s -> %-5s  (%s)\n", p.Source, p.Target, note)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
