package model

// Verbosity thresholds. The verbosity level starts at 0; --verbose raises
// it and --quiet lowers it. Critical problems print down to level -1 so a
// single --quiet still surfaces integrity failures.
const (
	LevelCritical = -1
	LevelError    = 0
	LevelWarning  = 1
	LevelDebug    = 2
)

// Options is the per-run configuration passed explicitly into the checker
// and walker. There is no process-wide options state.
type Options struct {
	// AlwaysHash verifies content even when the stored timestamp matches
	// the file's current one (--check).
	AlwaysHash bool
	// DryRun suppresses all attribute writes. Takes precedence over Force.
	DryRun bool
	// Force allows updating tags on backdated, corrupt, or invalid files.
	Force bool
	// PrintSum prints coreutils-style "<digest>  <file>" lines instead of
	// state lines.
	PrintSum bool
	// Recursive descends into directories.
	Recursive bool
	// TagNew creates tags for files that have none.
	TagNew bool
	// Refresh updates tags on files whose content or timestamp changed.
	Refresh bool
	// Verbosity is the print level: negative is quieter, positive louder.
	Verbosity int
}

// DefaultOptions returns the options used when no flags are given:
// tag untagged files and refresh changed ones, normal verbosity.
func DefaultOptions() Options {
	return Options{TagNew: true, Refresh: true}
}

// Show reports whether messages at the given level should be printed.
func (o Options) Show(level int) bool {
	return o.Verbosity >= level
}
