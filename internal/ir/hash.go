package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the hashed form to evolve.
const (
	DomainClip  = "trackbake/clip/v1"
	DomainCurve = "trackbake/curve/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ClipID computes the content-addressed ID of a baked clip from its
// canonical IR form. The ID is stable across runs given identical curves.
func ClipID(clip IRObject) (string, error) {
	canonical, err := MarshalCanonical(clip)
	if err != nil {
		return "", fmt.Errorf("ClipID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainClip, canonical), nil
}

// CurveHash computes the content hash of a single baked curve. The store
// keys curve rows by it so re-baking identical output is a no-op.
func CurveHash(curve IRObject) (string, error) {
	canonical, err := MarshalCanonical(curve)
	if err != nil {
		return "", fmt.Errorf("CurveHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCurve, canonical), nil
}

// MustClipID is like ClipID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustClipID(clip IRObject) string {
	id, err := ClipID(clip)
	if err != nil {
		panic(err)
	}
	return id
}
