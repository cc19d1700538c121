package xattr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
)

// Record is the persisted digest and modification time for one file under
// one algorithm. Its lifetime is a single file check; records are never
// cached across files.
type Record struct {
	Alg    digest.Algorithm
	Digest string
	Sec    int64
	Nsec   int64
	// Valid reports whether Digest and the timestamp hold real data rather
	// than the cleared placeholder.
	Valid bool
	// Fuzzy marks a timestamp stored with less than nanosecond precision
	// by a legacy writer. Comparisons against a fuzzy record tolerate
	// sub-microsecond differences.
	Fuzzy bool
}

// Cleared returns an empty record for the algorithm: an all-'0' placeholder
// digest and a zero timestamp, marked invalid.
func Cleared(alg digest.Algorithm) Record {
	return Record{Alg: alg, Digest: strings.Repeat("0", alg.HexLen())}
}

// Format renders the record as "<digest> <seconds>.<nanoseconds>" for
// display, or "<empty>" when it holds no valid data.
func (r Record) Format() string {
	if !r.Valid {
		return "<empty>"
	}
	return fmt.Sprintf("%s %010d.%09d", r.Digest, r.Sec, r.Nsec)
}

// timestampValue is the on-disk encoding of the record's timestamp.
func (r Record) timestampValue() string {
	return fmt.Sprintf("%d.%09d", r.Sec, r.Nsec)
}

// parseTimestamp parses the stored "<seconds>.<fractional>" encoding. The
// fractional part may have 1 to 9 digits; fewer than 9 means the writer
// truncated precision, so the value is scaled up to nanoseconds and flagged
// fuzzy. A missing fractional part parses as zero nanoseconds, fuzzy.
func parseTimestamp(s string) (sec, nsec int64, fuzzy bool, err error) {
	secPart, frac, hasFrac := strings.Cut(s, ".")

	sec, err = strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: bad seconds in timestamp %q", model.ErrInvalidRecord, s)
	}

	if !hasFrac {
		return sec, 0, true, nil
	}
	if len(frac) < 1 || len(frac) > 9 {
		return 0, 0, false, fmt.Errorf("%w: timestamp %q has %d fractional digits", model.ErrInvalidRecord, s, len(frac))
	}

	nsec, err = strconv.ParseInt(frac, 10, 64)
	if err != nil || nsec < 0 {
		return 0, 0, false, fmt.Errorf("%w: bad fraction in timestamp %q", model.ErrInvalidRecord, s)
	}

	if len(frac) < 9 {
		fuzzy = true
		for i := len(frac); i < 9; i++ {
			nsec *= 10
		}
	}
	if nsec >= 1e9 {
		return 0, 0, false, fmt.Errorf("%w: timestamp %q nanoseconds out of range", model.ErrInvalidRecord, s)
	}
	return sec, nsec, fuzzy, nil
}

// normalizeDigest validates a stored digest against the algorithm's size
// and folds it to lowercase. Uppercase hex is accepted; anything else is a
// malformed record.
func normalizeDigest(s string, alg digest.Algorithm) (string, error) {
	if len(s) != alg.HexLen() {
		return "", fmt.Errorf("%w: stored digest has length %d, want %d", model.ErrInvalidRecord, len(s), alg.HexLen())
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return "", fmt.Errorf("%w: stored digest contains %q", model.ErrInvalidRecord, c)
		}
	}
	return strings.ToLower(s), nil
}
