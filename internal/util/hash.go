package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex hashes b and returns the lowercase hex digest. Used for upload
// identities and chunk ids, where stability across runs matters.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
