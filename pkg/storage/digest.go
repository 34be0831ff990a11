package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SHA256OfText returns the hex SHA-256 digest of text.
func SHA256OfText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SHA256OfJSON returns the digest of the canonical JSON encoding of raw.
// The document is decoded and re-encoded so that key order and whitespace
// do not change the digest; equal documents always hash equally.
func SHA256OfJSON(raw []byte) (string, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("digest: invalid JSON document: %w", err)
	}
	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return SHA256OfText(string(canonical)), nil
}

// SameJSON reports whether two raw JSON documents encode the same value,
// ignoring key order and whitespace.
func SameJSON(a, b []byte) bool {
	da, err := SHA256OfJSON(a)
	if err != nil {
		return false
	}
	db, err := SHA256OfJSON(b)
	if err != nil {
		return false
	}
	return da == db
}
