package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonemill/tonemill/internal/history"
)

var historyFlags struct {
	limit  int
	failed bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent transcodes from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := subcommandOptions()
		if err != nil {
			return err
		}
		path := opts.HistoryPath
		if path == "" {
			path = history.DefaultPath()
		}

		journal, err := history.Open(path)
		if err != nil {
			return err
		}
		defer journal.Close()

		entries, err := journal.List(historyFlags.limit, historyFlags.failed)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "no history entries")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-9s  %s -> %s",
				e.StartedAt.Local().Format(time.DateTime), e.Status, e.SourcePath, e.OutputPath)
			switch {
			case e.Error != "":
				line += "  (" + e.Error + ")"
			case e.Reason != "":
				line += "  (" + e.Reason + ")"
			case e.Warning != "":
				line += "  (warning: " + e.Warning + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum entries to list")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only list failed transcodes")
	rootCmd.AddCommand(historyCmd)
}
