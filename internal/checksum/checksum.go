// Package checksum derives the content digests used as ETag values for
// optimistic concurrency on note updates.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of a note body. Clients echo
// this value back in If-Match headers to detect concurrent edits.
func Sum(body string) string {
	h := sha256.Sum256([]byte(body))
	return hex.EncodeToString(h[:])
}
