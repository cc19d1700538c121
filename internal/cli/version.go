package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the xtag version string, overridden at build time via
// -ldflags "-X github.com/user/xtag/internal/cli.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the xtag version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xtag version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
