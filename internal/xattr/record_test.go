package xattr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("full nanosecond precision is exact", func(t *testing.T) {
		sec, nsec, fuzzy, err := parseTimestamp("1335974989.123456789")
		require.NoError(t, err)
		assert.Equal(t, int64(1335974989), sec)
		assert.Equal(t, int64(123456789), nsec)
		assert.False(t, fuzzy)
	})

	t.Run("short fraction scales up and is fuzzy", func(t *testing.T) {
		sec, nsec, fuzzy, err := parseTimestamp("1335974989.123")
		require.NoError(t, err)
		assert.Equal(t, int64(1335974989), sec)
		assert.Equal(t, int64(123000000), nsec)
		assert.True(t, fuzzy)
	})

	t.Run("single digit fraction", func(t *testing.T) {
		_, nsec, fuzzy, err := parseTimestamp("7.5")
		require.NoError(t, err)
		assert.Equal(t, int64(500000000), nsec)
		assert.True(t, fuzzy)
	})

	t.Run("missing fraction is zero and fuzzy", func(t *testing.T) {
		sec, nsec, fuzzy, err := parseTimestamp("1335974989")
		require.NoError(t, err)
		assert.Equal(t, int64(1335974989), sec)
		assert.Zero(t, nsec)
		assert.True(t, fuzzy)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		for _, s := range []string{
			"",
			".",
			"abc",
			"123.",
			"123.abc",
			"123.1234567890", // ten fractional digits
			"123.45x",
			"12.34.56",
		} {
			_, _, _, err := parseTimestamp(s)
			assert.ErrorIs(t, err, model.ErrInvalidRecord, "input %q", s)
		}
	})
}

func TestNormalizeDigest(t *testing.T) {
	alg := digest.Default()
	valid := strings.Repeat("ab", 32)

	t.Run("accepts a well-formed digest", func(t *testing.T) {
		got, err := normalizeDigest(valid, alg)
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	})

	t.Run("folds uppercase to lowercase", func(t *testing.T) {
		got, err := normalizeDigest(strings.ToUpper(valid), alg)
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := normalizeDigest("abcdef1234", alg)
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		_, err := normalizeDigest(strings.Repeat("zz", 32), alg)
		assert.ErrorIs(t, err, model.ErrInvalidRecord)
	})
}

func TestRecordFormat(t *testing.T) {
	alg := digest.Default()

	t.Run("invalid record renders the sentinel", func(t *testing.T) {
		assert.Equal(t, "<empty>", Cleared(alg).Format())
	})

	t.Run("valid record pads seconds and nanoseconds", func(t *testing.T) {
		rec := Record{
			Alg:    alg,
			Digest: strings.Repeat("ab", 32),
			Sec:    1335974989,
			Nsec:   123,
			Valid:  true,
		}
		assert.Equal(t, strings.Repeat("ab", 32)+" 1335974989.000000123", rec.Format())
	})

	t.Run("timestamp attribute value keeps full precision", func(t *testing.T) {
		rec := Record{Sec: 7, Nsec: 5}
		assert.Equal(t, "7.000000005", rec.timestampValue())
	})
}

func TestCleared(t *testing.T) {
	alg := digest.Default()
	rec := Cleared(alg)

	assert.False(t, rec.Valid)
	assert.Equal(t, strings.Repeat("0", 64), rec.Digest)
	assert.Zero(t, rec.Sec)
	assert.Zero(t, rec.Nsec)
}
