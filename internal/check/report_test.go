package check

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
	"github.com/user/xtag/internal/xattr"
)

func reportResult(state model.State) Result {
	actual := xattr.Cleared(digest.Default())
	actual.Digest = helloSum
	actual.Sec = 1700000000
	actual.Nsec = 123456789
	actual.Valid = true

	return Result{
		Path:   "a.txt",
		State:  state,
		Stored: xattr.Cleared(digest.Default()),
		Actual: actual,
	}
}

func TestReport(t *testing.T) {
	t.Run("ordinary states print at normal verbosity", func(t *testing.T) {
		var out, errOut bytes.Buffer
		Report(&out, &errOut, reportResult(model.StateNew), model.DefaultOptions())
		assert.Equal(t, "a.txt: NEW\n", out.String())
	})

	t.Run("OK lines need --verbose", func(t *testing.T) {
		var out, errOut bytes.Buffer
		Report(&out, &errOut, reportResult(model.StateOK), model.DefaultOptions())
		assert.Empty(t, out.String())

		opts := model.DefaultOptions()
		opts.Verbosity = 1
		Report(&out, &errOut, reportResult(model.StateOK), opts)
		assert.Equal(t, "a.txt: OK\n", out.String())
	})

	t.Run("critical states print even in quiet mode", func(t *testing.T) {
		var out, errOut bytes.Buffer
		opts := model.DefaultOptions()
		opts.Verbosity = -1
		Report(&out, &errOut, reportResult(model.StateCorrupt), opts)
		assert.Equal(t, "a.txt: CORRUPT\n", out.String())
	})

	t.Run("double quiet silences everything", func(t *testing.T) {
		var out, errOut bytes.Buffer
		opts := model.DefaultOptions()
		opts.Verbosity = -2
		Report(&out, &errOut, reportResult(model.StateCorrupt), opts)
		assert.Empty(t, out.String())
	})

	t.Run("double verbose dumps the records", func(t *testing.T) {
		var out, errOut bytes.Buffer
		opts := model.DefaultOptions()
		opts.Verbosity = 2

		res := reportResult(model.StateOutdated)
		res.Stored.Digest = strings.Repeat("ab", 32)
		res.Stored.Sec = 1600000000
		res.Stored.Valid = true

		Report(&out, &errOut, res, opts)
		assert.Contains(t, out.String(), "a.txt: OUTDATED\n")
		assert.Contains(t, out.String(), "# stored: "+strings.Repeat("ab", 32)+" 1600000000.000000000\n")
		assert.Contains(t, out.String(), "# actual: "+helloSum+" 1700000000.123456789\n")
	})

	t.Run("print mode emits checksum lines", func(t *testing.T) {
		var out, errOut bytes.Buffer
		opts := model.DefaultOptions()
		opts.PrintSum = true
		Report(&out, &errOut, reportResult(model.StateOK), opts)
		assert.Equal(t, helloSum+"  a.txt\n", out.String())
	})

	t.Run("print mode falls back to the stored digest", func(t *testing.T) {
		var out, errOut bytes.Buffer
		opts := model.DefaultOptions()
		opts.PrintSum = true

		res := reportResult(model.StateOK)
		res.Actual.Valid = false
		res.Stored.Digest = strings.Repeat("ab", 32)
		res.Stored.Valid = true

		Report(&out, &errOut, res, opts)
		assert.Equal(t, strings.Repeat("ab", 32)+"  a.txt\n", out.String())
	})

	t.Run("errors go to the error stream", func(t *testing.T) {
		var out, errOut bytes.Buffer
		res := reportResult(model.StateFault)
		res.Err = model.ErrUnsupported

		Report(&out, &errOut, res, model.DefaultOptions())
		assert.Contains(t, errOut.String(), "does not support extended attributes")
	})
}
