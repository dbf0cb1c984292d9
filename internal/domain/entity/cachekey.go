package entity

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKey derives the deterministic fingerprint of a request's semantically
// relevant fields. Fields must already be normalized; their order is part of
// the contract. A separator byte keeps field boundaries from colliding.
func CacheKey(fields ...string) string {
	h := sha256.New()
	for i, f := range fields {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}
