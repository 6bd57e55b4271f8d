// Package contenthash defines the fixed-width digest type used to key the
// ContentStore. The algorithm (BLAKE3-256) is an implementation choice; only
// collision-resistance and determinism within a run are contracted.
package contenthash

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Size is the digest width in bytes.
const Size = 32

// Hash is an opaque, fixed-width content digest. Equality implies byte
// equality of the underlying content with negligible collision probability.
type Hash [Size]byte

// Sum computes the content hash of b.
func Sum(b []byte) Hash {
	var h Hash
	sum := blake3.Sum256(b)
	copy(h[:], sum[:])
	return h
}

// String renders the hash as lowercase hex, for logs and diagnostics only.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero digest.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
