// Package idgen generates short collision-checked task IDs.
package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultPrefix is the ID prefix used when none is configured.
const DefaultPrefix = "t"

// DefaultLength is the number of base36 characters after the prefix.
const DefaultLength = 4

// EncodeBase36 converts a byte slice to a base36 string of specified length.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	var result strings.Builder
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	// Build the string in reverse
	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	// Pad with zeros if needed
	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}

	// Truncate to exact length if needed (keep least significant digits)
	if len(str) > length {
		str = str[len(str)-length:]
	}

	return str
}

// New creates a hash-based ID like "t-4fk2" from the task text and creation
// time. Base36 encoding (0-9, a-z) gives better information density than hex.
// The nonce disambiguates hash collisions; callers that need uniqueness
// against an existing set should use NewUnique instead.
func New(prefix, text string, createdAt time.Time, length, nonce int) string {
	content := fmt.Sprintf("%s|%d|%d", text, createdAt.UnixNano(), nonce)
	hash := sha256.Sum256([]byte(content))

	// Bytes of hash consumed per desired output length. Supported range is
	// 3-8 chars; anything else falls back to the 3-char width.
	var numBytes int
	switch length {
	case 3:
		numBytes = 2
	case 4:
		numBytes = 3
	case 5, 6:
		numBytes = 4
	case 7, 8:
		numBytes = 5
	default:
		numBytes = 2
	}

	shortHash := EncodeBase36(hash[:numBytes], length)

	return fmt.Sprintf("%s-%s", prefix, shortHash)
}

// NewUnique generates an ID that is not already taken, bumping the nonce
// until it finds a free one. taken reports whether an ID is in use.
func NewUnique(prefix, text string, createdAt time.Time, length int, taken func(id string) bool) string {
	for nonce := 0; ; nonce++ {
		id := New(prefix, text, createdAt, length, nonce)
		if !taken(id) {
			return id
		}
	}
}
