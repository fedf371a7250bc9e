// Package keygen mints self-issued license keys.
package keygen

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// alphabet is the restricted character set for license keys. The
// ambiguous characters 0, O, 1, and I are excluded so keys survive being
// read aloud or retyped from a receipt.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	groupCount = 4
	groupSize  = 4
)

// keyPattern matches the canonical form: four groups of four characters
// from the restricted alphabet, hyphen separated.
var keyPattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}(-[A-HJ-NP-Z2-9]{4}){3}$`)

// NewLicenseKey returns a freshly minted key like "XK2P-9RMW-QT4H-BZN7".
// 16 characters over a 32-character alphabet give 80 bits of randomness,
// which makes both guessing and accidental collision negligible.
func NewLicenseKey() (string, error) {
	raw := make([]byte, groupCount*groupSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var b strings.Builder
	b.Grow(groupCount*groupSize + groupCount - 1)
	for i, rb := range raw {
		if i > 0 && i%groupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(alphabet[int(rb)%len(alphabet)])
	}
	return b.String(), nil
}

// IsWellFormed reports whether key is in the canonical minted form.
func IsWellFormed(key string) bool {
	return keyPattern.MatchString(key)
}
