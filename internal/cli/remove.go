package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/xtag/internal/model"
	"github.com/user/xtag/internal/xattr"
)

var removeCmd = &cobra.Command{
	Use:     "remove FILE...",
	Aliases: []string{"untag"},
	Short:   "Remove stored tags from files",
	Long: `Remove the stored digest and timestamp attributes from the given files.

Only the attributes for the selected hash algorithm are removed; tags
written under other algorithms are left in place.

Examples:
  xtag remove file.txt
  xtag remove --algorithm blake2b512 file.txt

Exit Codes:
  0  Tags removed from all files
  1  A file could not be opened or had no tags
  3  Unknown hash algorithm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	alg, err := resolveAlgorithm()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(model.ExitFatal)
		return nil
	}

	opts := buildOptions()
	exit := model.ExitOK

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not open %q: %v\n", path, err)
			exit = model.WorstExit(exit, model.ExitError)
			continue
		}

		err = xattr.RemoveRecord(f, alg)
		f.Close()

		switch {
		case err == nil:
			if opts.Show(model.LevelError) {
				fmt.Printf("%s: tags removed\n", path)
			}
		case errors.Is(err, model.ErrNoAttribute):
			fmt.Fprintf(os.Stderr, "Error: %s has no stored tags\n", path)
			exit = model.WorstExit(exit, model.ExitError)
		default:
			fmt.Fprintf(os.Stderr, "Error: could not remove tags from %q: %v\n", path, err)
			exit = model.WorstExit(exit, model.ExitError)
		}
	}

	if exit != model.ExitOK {
		Exit(exit)
	}
	return nil
}
