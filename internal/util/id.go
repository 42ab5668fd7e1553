package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID mints a random hex identifier, optionally prefixed ("rnd_...",
// "note_..."). Collisions are not checked; 128 bits is plenty for one desk.
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
