package digest

import (
	"encoding/hex"
	"fmt"
	"io"
)

// readBufferSize is the chunk size used when streaming file content.
const readBufferSize = 64 * 1024

// Sum streams r from its current position to EOF through the algorithm and
// returns the lowercase hex digest. The reader's position is advanced; the
// caller is responsible for positioning r at the start of the content it
// wants hashed.
func Sum(r io.Reader, alg Algorithm) (string, error) {
	h, err := alg.new()
	if err != nil {
		return "", fmt.Errorf("initializing %s: %w", alg.Name(), err)
	}

	buf := make([]byte, readBufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if len(sum) != alg.HexLen() {
		// A digest of the wrong size means the registry entry is wrong,
		// not that the file is bad.
		return "", fmt.Errorf("%s digest has length %d, want %d", alg.Name(), len(sum), alg.HexLen())
	}
	return sum, nil
}
