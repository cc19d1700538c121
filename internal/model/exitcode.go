package model

// Process exit codes. A run reports the worst code observed across all files
// so automated callers can distinguish integrity failures from plain errors.
const (
	// ExitOK means every file was OK or was updated cleanly.
	ExitOK = 0
	// ExitError means a recoverable per-file problem occurred (open, stat,
	// or attribute write failure, or a non-regular file argument).
	ExitError = 1
	// ExitIntegrity means at least one file was found corrupt, backdated,
	// or with invalid stored attributes.
	ExitIntegrity = 2
	// ExitFatal means the run aborted (bad configuration, unusable journal).
	ExitFatal = 3
)

// WorstExit combines two exit codes, keeping the more severe one.
func WorstExit(a, b int) int {
	if b > a {
		return b
	}
	return a
}
