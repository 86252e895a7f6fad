package entity

import (
	"errors"
	"strings"
)

// ErrInvalidAddress reports an address failing the length/prefix rule.
var ErrInvalidAddress = errors.New("address must be 42 characters starting with 0x")

// IsValidAddress reports whether s looks like a BSC contract or wallet
// address: exactly 42 characters and a "0x" prefix. No checksum or hex
// validation is applied.
func IsValidAddress(s string) bool {
	return len(s) == 42 && strings.HasPrefix(s, "0x")
}

// NormalizeAddress lowercases an address for use in upstream request payloads
// and map keys where case-insensitive identity is wanted.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}
