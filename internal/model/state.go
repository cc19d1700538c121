// Package model provides core data types for xtag.
package model

// State classifies the outcome of checking one file against its stored tag.
type State int

const (
	// StateFault means an I/O error prevented determining the file's state.
	StateFault State = iota
	// StateOK means the stored digest and timestamp both match.
	StateOK
	// StateSame means the digest matches but the timestamp was touched.
	StateSame
	// StateNew means the file has no stored tag.
	StateNew
	// StateOutdated means the digest differs and the file's mtime is newer
	// than the stored one.
	StateOutdated
	// StateBackdated means the digest differs and the file's mtime is older
	// than the stored one.
	StateBackdated
	// StateCorrupt means the digest differs but the mtime is unchanged.
	StateCorrupt
	// StateInvalid means the stored attributes exist but are malformed.
	StateInvalid
)

// String returns the display text for the state. The text matches the
// output of the classic shatag tools so existing scripts keep working.
func (s State) String() string {
	switch s {
	case StateFault:
		return "FAULT"
	case StateOK:
		return "OK"
	case StateSame:
		return "HASH OK"
	case StateNew:
		return "NEW"
	case StateOutdated:
		return "OUTDATED"
	case StateBackdated:
		return "BACKDATED"
	case StateCorrupt:
		return "CORRUPT"
	case StateInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Critical reports whether the state indicates an integrity or I/O problem
// that must be shown even in quiet mode and that gates updates behind --force.
func (s State) Critical() bool {
	switch s {
	case StateFault, StateBackdated, StateCorrupt, StateInvalid:
		return true
	default:
		return false
	}
}
