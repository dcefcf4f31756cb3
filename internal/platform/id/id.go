// Package id generates the opaque keys behind admin cookies.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Len is the length of every key NewID returns.
const Len = 26

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random UUIDv4 as lowercase unpadded base32.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// Valid reports whether s could have come from NewID. Client-supplied keys
// are checked before they reach any lookup.
func Valid(s string) bool {
	if len(s) != Len || strings.ToLower(s) != s {
		return false
	}
	raw, err := encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return false
	}
	u, err := uuid.FromBytes(raw)
	return err == nil && u.Version() == 4 && u.Variant() == uuid.RFC4122
}
