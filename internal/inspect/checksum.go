package inspect

import (
	"encoding/hex"

	"github.com/samcharles93/tad/pkg/tad"
	"github.com/zeebo/blake3"
)

// Checksum returns the hex BLAKE3 digest of the array's data bytes.
// Metadata does not contribute, so arrays that only differ in tags share a
// checksum.
func Checksum(a *tad.Array) string {
	sum := blake3.Sum256(a.Data())
	return hex.EncodeToString(sum[:])
}
