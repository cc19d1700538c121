package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/xtag/internal/journal"
	"github.com/user/xtag/internal/model"
)

var (
	historyPath  string
	historyState string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded scan results",
	Long: `Show past check results from the scan journal.

A journal is only written when check runs are invoked with --journal; point
this command at the same database.

Examples:
  xtag history --journal scan.db
  xtag history --journal scan.db --state CORRUPT
  xtag history --journal scan.db --path /srv/archive/a.txt -l 50
  xtag history --journal scan.db --json | jq '.[].path'

Exit Codes:
  0  Success
  3  No journal given or the journal could not be opened`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPath, "path", "", "Only show entries for this exact path")
	historyCmd.Flags().StringVar(&historyState, "state", "", "Only show entries with this state (e.g. CORRUPT)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON for machine parsing")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if journalPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no journal specified (use --journal)")
		Exit(model.ExitFatal)
		return nil
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(model.ExitFatal)
		return nil
	}
	defer j.Close()

	entries, err := j.List(journal.ListOptions{
		Path:  historyPath,
		State: historyState,
		Limit: historyLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list journal entries: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No journal entries found.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-9s  %s\n", e.RecordedAt, e.State, e.Path)
	}
	fmt.Printf("\n%d entr%s shown\n", len(entries), pluralY(len(entries)))
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
