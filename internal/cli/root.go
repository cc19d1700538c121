// Package cli provides the command-line interface for xtag.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/xtag/internal/check"
	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/journal"
	"github.com/user/xtag/internal/model"
	"github.com/user/xtag/internal/walk"
)

// Flags for the root (check) command
var (
	checkFlag    bool
	dryRun       bool
	force        bool
	printSum     bool
	recursive    bool
	quietCount   int
	verboseCount int
	noCreate     bool
	noRefresh    bool
	journalPath  string
	algName      string
	algFlags     map[string]*bool
)

// rootCmd checks files against their stored tags when invoked directly.
var rootCmd = &cobra.Command{
	Use:   "xtag [flags] FILE...",
	Short: "Display and update xattr-based checksums",
	Long: `xtag stores a cryptographic digest and modification time in each file's
extended attributes and compares them on later runs.

Every checked file is classified:

  OK          stored digest and timestamp both match
  HASH OK     content unchanged but the timestamp was touched
  NEW         the file has no stored tag yet
  OUTDATED    content changed and the file is newer than its tag
  BACKDATED   content changed but the file is older than its tag
  CORRUPT     content changed without a timestamp change (bit rot or tampering)
  INVALID     the stored attributes are malformed
  FAULT       an I/O error prevented checking the file

By default xtag tags NEW files and refreshes tags on changed files.
BACKDATED, CORRUPT, and INVALID files are never updated without --force,
since overwriting their tags would mask real integrity problems.

The attribute layout is compatible with the shatag family of tools
(user.shatag.<algorithm> and user.shatag.ts).

Examples:
  xtag file.txt                  # tag or verify one file
  xtag -r /srv/archive           # walk a tree
  xtag -c -n -r /srv/archive     # full content audit, no writes
  xtag -p -r /srv/archive        # emit sha256sum-compatible output
  xtag --blake2b512 -r /srv      # use a different hash algorithm
  xtag --journal scan.db -r /srv # record every result for later review

Exit Codes:
  0  All files OK or updated cleanly
  1  A recoverable per-file error occurred (open/stat/write failure)
  2  An integrity problem was found (CORRUPT, BACKDATED, or INVALID)
  3  Fatal error (unknown algorithm, unusable journal)`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&checkFlag, "check", "c", false, "Verify content even when the stored timestamp matches")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "Don't update any stored attributes")
	flags.BoolVarP(&force, "force", "f", false, "Update tags on backdated, corrupt, or invalid files")
	flags.BoolVarP(&printSum, "print", "p", false, "Print digests in the coreutils sha*sum format")
	flags.BoolVarP(&recursive, "recursive", "r", false, "Process directories and their contents")
	flags.BoolVar(&noCreate, "no-create", false, "Don't create tags for untagged files")
	flags.BoolVar(&noRefresh, "no-refresh", false, "Don't refresh tags on changed files")

	pflags := rootCmd.PersistentFlags()
	pflags.CountVarP(&verboseCount, "verbose", "v", "Print more (repeat for state dumps)")
	pflags.CountVarP(&quietCount, "quiet", "q", "Print less (errors and integrity failures only)")
	pflags.StringVar(&journalPath, "journal", "", "Record results in a SQLite journal at this path")
	pflags.StringVar(&algName, "algorithm", "", "Hash algorithm to use (default sha256)")

	algFlags = make(map[string]*bool)
	for _, name := range digest.Names() {
		b := new(bool)
		algFlags[name] = b
		flags.BoolVar(b, name, false, fmt.Sprintf("Use the %s hash algorithm", name))
	}
}

// ExitCode is used to communicate exit codes for testing
var ExitCode int

// ExitFunc is the function called to exit the program
// Can be overridden for testing
var ExitFunc = os.Exit

// Exit sets the exit code and calls the exit function
func Exit(code int) {
	ExitCode = code
	ExitFunc(code)
}

// resolveAlgorithm picks the hash algorithm from the convenience flags and
// --algorithm, defaulting to sha256. Selecting more than one is an error.
func resolveAlgorithm() (digest.Algorithm, error) {
	var selected []string
	for _, name := range digest.Names() {
		if b, ok := algFlags[name]; ok && *b {
			selected = append(selected, name)
		}
	}
	if algName != "" {
		selected = append(selected, algName)
	}

	switch len(selected) {
	case 0:
		return digest.Default(), nil
	case 1:
		return digest.ByName(selected[0])
	default:
		return digest.Algorithm{}, fmt.Errorf("multiple hash algorithms specified: %s", strings.Join(selected, ", "))
	}
}

// buildOptions assembles the per-run options from the parsed flags.
func buildOptions() model.Options {
	opts := model.DefaultOptions()
	opts.AlwaysHash = checkFlag
	opts.DryRun = dryRun
	opts.Force = force
	opts.PrintSum = printSum
	opts.Recursive = recursive
	opts.TagNew = !noCreate
	opts.Refresh = !noRefresh
	opts.Verbosity = verboseCount - quietCount
	return opts
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "No file specified.")
		cmd.Usage()
		Exit(model.ExitFatal)
		return nil
	}

	alg, err := resolveAlgorithm()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(model.ExitFatal)
		return nil
	}

	opts := buildOptions()
	if opts.DryRun && opts.Force && opts.Show(model.LevelWarning) {
		fmt.Fprintln(os.Stderr, "Warning: --dry-run takes precedence over --force.")
	}

	walker := walk.New(check.New(alg), opts, os.Stdout, os.Stderr)

	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			Exit(model.ExitFatal)
			return nil
		}
		defer j.Close()
		if err := j.BeginRun(alg.Name()); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			Exit(model.ExitFatal)
			return nil
		}
		walker.SetRecorder(j)
	}

	for _, path := range args {
		walker.Process(path)
	}

	if code := walker.ExitCode(); code != model.ExitOK {
		Exit(code)
	}
	return nil
}
