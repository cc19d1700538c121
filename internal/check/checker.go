// Package check implements the file-state reconciliation engine: it decides
// whether a file's stored digest record is consistent with its current
// content and timestamp, classifies the outcome, and applies the update
// policy.
package check

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
	"github.com/user/xtag/internal/xattr"
)

// Store reads and writes digest records on a file. The production store is
// backed by extended attributes; tests substitute fakes.
type Store interface {
	ReadRecord(f *os.File, alg digest.Algorithm) (xattr.Record, error)
	WriteRecord(f *os.File, rec xattr.Record) error
}

// Hasher computes a file digest. Tests substitute a counting fake to verify
// the timestamp fast path skips hashing.
type Hasher interface {
	Sum(r io.Reader, alg digest.Algorithm) (string, error)
}

type attrStore struct{}

func (attrStore) ReadRecord(f *os.File, alg digest.Algorithm) (xattr.Record, error) {
	return xattr.ReadRecord(f, alg)
}

func (attrStore) WriteRecord(f *os.File, rec xattr.Record) error {
	return xattr.WriteRecord(f, rec)
}

type sumHasher struct{}

func (sumHasher) Sum(r io.Reader, alg digest.Algorithm) (string, error) {
	return digest.Sum(r, alg)
}

// Checker checks files against their stored records for one algorithm.
type Checker struct {
	Alg    digest.Algorithm
	Store  Store
	Hasher Hasher
}

// New returns a checker using the extended-attribute store and the real
// digest provider.
func New(alg digest.Algorithm) *Checker {
	return &Checker{Alg: alg, Store: attrStore{}, Hasher: sumHasher{}}
}

// Result is the outcome of checking one file.
type Result struct {
	Path   string
	State  model.State
	Stored xattr.Record
	Actual xattr.Record
	// Written reports whether an updated record was persisted.
	Written bool
	// Code is the per-file exit code contribution.
	Code int
	// Err holds the I/O or write failure, if any.
	Err error
}

// Check classifies the file and, if the options allow it, persists an
// updated record. The file must be open for reading with its position at
// the start of content; info may be nil, in which case the file is statted
// here. The file is not closed.
func (c *Checker) Check(f *os.File, path string, info os.FileInfo, opts model.Options) Result {
	res := Result{
		Path:   path,
		State:  model.StateFault,
		Code:   model.ExitError,
		Stored: xattr.Cleared(c.Alg),
		Actual: xattr.Cleared(c.Alg),
	}

	// Capture the live mtime before hashing. If content changes between
	// the two, the next run re-detects it; the record is never silently
	// wrong in the other direction.
	if info == nil {
		var err error
		info, err = f.Stat()
		if err != nil {
			res.Err = fmt.Errorf("stat: %w", err)
			return res
		}
	}
	mt := info.ModTime()
	res.Actual.Sec = mt.Unix()
	res.Actual.Nsec = int64(mt.Nanosecond())

	stored, err := c.Store.ReadRecord(f, c.Alg)
	res.Stored = stored

	switch {
	case err == nil:
		// Stored record is well-formed; compare below.
	case errors.Is(err, model.ErrNoAttribute):
		if hashErr := c.hash(f, &res.Actual); hashErr != nil {
			res.Err = hashErr
			return res
		}
		res.State = model.StateNew
		return c.finish(f, res, opts)
	case errors.Is(err, model.ErrInvalidRecord):
		// Still hash so the report and a forced update have the actual
		// digest available.
		res.Err = err
		if hashErr := c.hash(f, &res.Actual); hashErr != nil {
			res.Err = hashErr
			return res
		}
		res.State = model.StateInvalid
		return c.finish(f, res, opts)
	default:
		res.Err = err
		return res
	}

	cmp := tsCompare(stored.Sec, stored.Nsec, res.Actual.Sec, res.Actual.Nsec, stored.Fuzzy)

	// Fast path: matching timestamps mean an unchanged file unless the
	// caller asked for content verification.
	if cmp == 0 && !opts.AlwaysHash {
		res.State = model.StateOK
		return c.finish(f, res, opts)
	}

	if hashErr := c.hash(f, &res.Actual); hashErr != nil {
		res.Err = hashErr
		return res
	}

	switch {
	case res.Actual.Digest == stored.Digest:
		if cmp == 0 {
			res.State = model.StateOK
		} else {
			res.State = model.StateSame
		}
	case cmp < 0:
		res.State = model.StateOutdated
	case cmp > 0:
		res.State = model.StateBackdated
	default:
		res.State = model.StateCorrupt
	}

	return c.finish(f, res, opts)
}

// hash computes the file's digest into rec and marks it valid.
func (c *Checker) hash(f *os.File, rec *xattr.Record) error {
	sum, err := c.Hasher.Sum(f, c.Alg)
	if err != nil {
		return fmt.Errorf("computing %s digest: %w", c.Alg.Name(), err)
	}
	rec.Digest = sum
	rec.Valid = true
	return nil
}

// finish applies the update policy for a classified file and sets the
// per-file exit code.
func (c *Checker) finish(f *os.File, res Result, opts model.Options) Result {
	res.Code = model.ExitOK
	if res.State.Critical() {
		// Integrity problems keep a distinguished exit code even when a
		// forced update rewrites the record, so automation notices them.
		res.Code = model.ExitIntegrity
	}

	if res.State == model.StateOK {
		return res
	}
	if res.State.Critical() && !opts.Force {
		return res
	}
	if res.State == model.StateNew && !opts.TagNew {
		return res
	}
	if res.State != model.StateNew && !opts.Refresh {
		return res
	}
	if opts.DryRun {
		return res
	}
	if !res.Actual.Valid {
		return res
	}

	if err := c.Store.WriteRecord(f, res.Actual); err != nil {
		res.Err = fmt.Errorf("updating stored record: %w", err)
		res.Code = model.WorstExit(res.Code, model.ExitError)
		return res
	}
	res.Written = true
	return res
}

// tsCompare orders two timestamps: negative when a is earlier than b,
// positive when later, zero when equal. When fuzzy is set, timestamps in
// the same second and less than a microsecond apart count as equal, for
// compatibility with writers that only stored microsecond precision.
func tsCompare(aSec, aNsec, bSec, bNsec int64, fuzzy bool) int {
	switch {
	case aSec > bSec:
		return 2
	case aSec < bSec:
		return -2
	}

	nsec := aNsec - bNsec
	if fuzzy {
		nsec /= 1000
	}

	switch {
	case nsec > 0:
		return 1
	case nsec < 0:
		return -1
	}
	return 0
}
