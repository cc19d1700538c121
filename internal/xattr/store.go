package xattr

import (
	"errors"
	"fmt"
	"os"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
)

// ReadRecord loads the stored record for the algorithm from the file's
// extended attributes.
//
// When neither attribute is present the file has never been tagged and the
// returned error wraps model.ErrNoAttribute. When an attribute is present
// but malformed the error wraps model.ErrInvalidRecord. In both cases the
// returned record is the cleared placeholder. Other errors are I/O or
// filesystem-support failures.
func ReadRecord(f *os.File, alg digest.Algorithm) (Record, error) {
	rec := Cleared(alg)

	ts, err := getAttr(f, timestampKey)
	if err != nil {
		return rec, err
	}
	rec.Sec, rec.Nsec, rec.Fuzzy, err = parseTimestamp(string(ts))
	if err != nil {
		return Cleared(alg), err
	}

	raw, err := getAttr(f, digestKey(alg))
	if err != nil {
		return Cleared(alg), err
	}
	rec.Digest, err = normalizeDigest(string(raw), alg)
	if err != nil {
		return Cleared(alg), err
	}

	rec.Valid = true
	return rec, nil
}

// WriteRecord persists the record, digest attribute first and timestamp
// second. Writing an invalid record is a programming error, not a
// user-facing condition.
func WriteRecord(f *os.File, rec Record) error {
	if !rec.Valid {
		return fmt.Errorf("refusing to write invalid record for %q", f.Name())
	}
	if len(rec.Digest) != rec.Alg.HexLen() {
		return fmt.Errorf("record digest length %d does not match %s", len(rec.Digest), rec.Alg.Name())
	}

	if err := setAttr(f, digestKey(rec.Alg), []byte(rec.Digest)); err != nil {
		return err
	}
	return setAttr(f, timestampKey, []byte(rec.timestampValue()))
}

// RemoveRecord deletes the stored digest and timestamp attributes for the
// algorithm. It returns model.ErrNoAttribute when the file had no tag at
// all; a partially present tag is removed without error.
func RemoveRecord(f *os.File, alg digest.Algorithm) error {
	missing := 0

	for _, key := range []string{digestKey(alg), timestampKey} {
		err := removeAttr(f, key)
		if errors.Is(err, model.ErrNoAttribute) {
			missing++
			continue
		}
		if err != nil {
			return err
		}
	}

	if missing == 2 {
		return fmt.Errorf("%s: %w", f.Name(), model.ErrNoAttribute)
	}
	return nil
}
