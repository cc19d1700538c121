package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/xtag/internal/check"
	"github.com/user/xtag/internal/daemon"
	"github.com/user/xtag/internal/journal"
	"github.com/user/xtag/internal/model"
	"github.com/user/xtag/internal/walk"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR...",
	Short: "Watch directories and re-tag files as they change",
	Long: `Watch one or more directory trees and re-check files shortly after they
are written, keeping tags current without full rescans.

Content is always verified on re-check (as with --check), since a write
event means the timestamp comparison alone cannot be trusted. --force and
--dry-run apply as with a normal check run.

Runs until interrupted (Ctrl-C or SIGTERM).

Examples:
  xtag watch /srv/archive
  xtag watch --journal scan.db /srv/archive /srv/media

Exit Codes:
  0  Stopped by signal
  3  Unknown algorithm, unusable journal, or watch setup failure`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	alg, err := resolveAlgorithm()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(model.ExitFatal)
		return nil
	}

	opts := buildOptions()
	// A write event invalidates the timestamp fast path.
	opts.AlwaysHash = true

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

	// Checks stay strictly sequential even when several debounce timers
	// fire together.
	var mu sync.Mutex
	checkFn := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		walker.Process(path)
	}

	logFn := func(format string, args ...interface{}) {
		if opts.Show(model.LevelDebug) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	w, err := daemon.NewWatcher(checkFn, logFn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		Exit(model.ExitFatal)
		return nil
	}

	for _, dir := range args {
		if err := w.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not watch %q: %v\n", dir, err)
			Exit(model.ExitFatal)
			return nil
		}
	}
	w.Start()

	if opts.Show(model.LevelError) {
		fmt.Fprintf(os.Stderr, "Watching %d directory tree(s), algorithm %s\n", len(args), alg.Name())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	w.Stop()
	return nil
}
