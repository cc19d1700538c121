// Package digest selects hash algorithms and computes file digests.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"

	"github.com/user/xtag/internal/model"
)

// Algorithm identifies a hash algorithm. Algorithms are compared by name,
// never by the identity of their constructor.
type Algorithm struct {
	name string
	size int
	new  func() (hash.Hash, error)
}

// Name returns the algorithm's lowercase name as used in attribute keys.
func (a Algorithm) Name() string { return a.name }

// Size returns the digest length in bytes.
func (a Algorithm) Size() int { return a.size }

// HexLen returns the length of the hex-encoded digest string.
func (a Algorithm) HexLen() int { return 2 * a.size }

// Equal reports whether two algorithms are the same.
func (a Algorithm) Equal(b Algorithm) bool { return a.name == b.name }

// IsZero reports whether the algorithm is the unconfigured zero value.
func (a Algorithm) IsZero() bool { return a.name == "" }

func (a Algorithm) String() string { return a.name }

// algorithms holds every supported algorithm, in the order shown in help
// output. sha256 is the shatag-compatible default; md5 and sha1 are kept
// for reading legacy tags.
var algorithms = []Algorithm{
	{"md5", md5.Size, func() (hash.Hash, error) { return md5.New(), nil }},
	{"sha1", sha1.Size, func() (hash.Hash, error) { return sha1.New(), nil }},
	{"sha256", sha256.Size, func() (hash.Hash, error) { return sha256.New(), nil }},
	{"sha512", sha512.Size, func() (hash.Hash, error) { return sha512.New(), nil }},
	{"blake2b512", blake2b.Size, func() (hash.Hash, error) { return blake2b.New512(nil) }},
	{"blake2s256", blake2s.Size, func() (hash.Hash, error) { return blake2s.New256(nil) }},
	{"blake3", 32, func() (hash.Hash, error) { return blake3.New(), nil }},
}

// Default returns the default algorithm (sha256, shatag compatible).
func Default() Algorithm {
	a, _ := ByName("sha256")
	return a
}

// ByName looks up an algorithm by its lowercase name.
func ByName(name string) (Algorithm, error) {
	for _, a := range algorithms {
		if a.name == name {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: %q", model.ErrUnknownAlgorithm, name)
}

// Names returns the names of all supported algorithms.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for _, a := range algorithms {
		names = append(names, a.name)
	}
	return names
}
