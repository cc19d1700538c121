package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/xtag/internal/digest"
)

// resetFlags restores the package-level flag state between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	resetFlagVars()
	t.Cleanup(resetFlagVars)
}

func resetFlagVars() {
	checkFlag = false
	dryRun = false
	force = false
	printSum = false
	recursive = false
	quietCount = 0
	verboseCount = 0
	noCreate = false
	noRefresh = false
	journalPath = ""
	algName = ""
	for _, b := range algFlags {
		*b = false
	}
}

func TestResolveAlgorithm(t *testing.T) {
	t.Run("defaults to sha256", func(t *testing.T) {
		resetFlags(t)
		alg, err := resolveAlgorithm()
		require.NoError(t, err)
		assert.Equal(t, "sha256", alg.Name())
	})

	t.Run("convenience flag selects the algorithm", func(t *testing.T) {
		resetFlags(t)
		*algFlags["md5"] = true
		alg, err := resolveAlgorithm()
		require.NoError(t, err)
		assert.Equal(t, "md5", alg.Name())
	})

	t.Run("--algorithm selects by name", func(t *testing.T) {
		resetFlags(t)
		algName = "blake2b512"
		alg, err := resolveAlgorithm()
		require.NoError(t, err)
		assert.Equal(t, "blake2b512", alg.Name())
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		resetFlags(t)
		algName = "crc32"
		_, err := resolveAlgorithm()
		assert.Error(t, err)
	})

	t.Run("selecting two algorithms is an error", func(t *testing.T) {
		resetFlags(t)
		*algFlags["md5"] = true
		*algFlags["sha512"] = true
		_, err := resolveAlgorithm()
		assert.ErrorContains(t, err, "multiple hash algorithms")
	})

	t.Run("every registered algorithm has a flag", func(t *testing.T) {
		for _, name := range digest.Names() {
			assert.Contains(t, algFlags, name)
		}
	})
}

func TestBuildOptions(t *testing.T) {
	t.Run("defaults tag and refresh", func(t *testing.T) {
		resetFlags(t)
		opts := buildOptions()
		assert.True(t, opts.TagNew)
		assert.True(t, opts.Refresh)
		assert.False(t, opts.AlwaysHash)
		assert.Zero(t, opts.Verbosity)
	})

	t.Run("maps the flags", func(t *testing.T) {
		resetFlags(t)
		checkFlag = true
		dryRun = true
		force = true
		printSum = true
		recursive = true
		noCreate = true
		noRefresh = true

		opts := buildOptions()
		assert.True(t, opts.AlwaysHash)
		assert.True(t, opts.DryRun)
		assert.True(t, opts.Force)
		assert.True(t, opts.PrintSum)
		assert.True(t, opts.Recursive)
		assert.False(t, opts.TagNew)
		assert.False(t, opts.Refresh)
	})

	t.Run("verbose and quiet cancel out", func(t *testing.T) {
		resetFlags(t)
		verboseCount = 2
		quietCount = 1
		assert.Equal(t, 1, buildOptions().Verbosity)
	})
}
