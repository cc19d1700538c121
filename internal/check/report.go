package check

import (
	"fmt"
	"io"

	"github.com/user/xtag/internal/model"
)

// Report prints a check result under the verbosity policy. Critical states
// print even in quiet mode; ordinary changes print at normal verbosity; OK
// lines only with --verbose; a second --verbose adds the stored and actual
// record dumps.
func Report(out, errOut io.Writer, res Result, opts model.Options) {
	if res.Err != nil && opts.Show(model.LevelError) {
		fmt.Fprintf(errOut, "Error: %s: %v\n", res.Path, res.Err)
	}

	if opts.PrintSum {
		printSum(out, errOut, res, opts)
		return
	}

	level := model.LevelError
	switch {
	case res.State.Critical():
		level = model.LevelCritical
	case res.State == model.StateOK:
		level = model.LevelWarning
	}
	if !opts.Show(level) {
		return
	}

	fmt.Fprintf(out, "%s: %s\n", res.Path, res.State)

	if opts.Show(model.LevelDebug) {
		if res.Stored.Valid {
			fmt.Fprintf(out, "# stored: %s\n", res.Stored.Format())
		}
		if res.Actual.Valid {
			fmt.Fprintf(out, "# actual: %s\n", res.Actual.Format())
		}
	}
}

// printSum emits a coreutils-style "<digest>  <file>" line, preferring the
// freshly computed digest over the stored one.
func printSum(out, errOut io.Writer, res Result, opts model.Options) {
	switch {
	case res.Actual.Valid:
		fmt.Fprintf(out, "%s  %s\n", res.Actual.Digest, res.Path)
	case res.Stored.Valid:
		fmt.Fprintf(out, "%s  %s\n", res.Stored.Digest, res.Path)
	default:
		if opts.Show(model.LevelError) {
			fmt.Fprintf(errOut, "Error: no digest available for %q\n", res.Path)
		}
	}
}
