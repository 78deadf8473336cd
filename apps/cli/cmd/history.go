package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/extapi/packages/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
	historyFile  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sent calls",
	Long: `Show the calls recorded by exec, newest first. Only the method, URL,
auth mode, status and timing are kept; credentials never are.

Examples:
  extapi history
  extapi history --limit 5 -o json
  extapi history --clear`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded calls")
	historyCmd.Flags().StringVar(&historyFile, "history-file", getEnvString("EXTAPI_HISTORY_FILE", ""), "History database path (env: EXTAPI_HISTORY_FILE)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if historyLimit < 1 {
		return usageError(fmt.Errorf("--limit must be at least 1"))
	}

	path, err := historyPath(historyFile)
	if err != nil {
		return configError(err)
	}
	store, err := history.Open(path)
	if err != nil {
		return configError(err)
	}
	defer store.Close()

	if historyClear {
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	entries, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	formatter := newFormatter(cmd.OutOrStdout())
	formatter.FormatHistory(entries)
	return flush(formatter)
}
