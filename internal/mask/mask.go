// Package mask decides which configuration keys are sensitive and hides
// their values for display.
package mask

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Placeholder replaces the hidden part of a masked value.
const Placeholder = "****"

// sensitivePatterns are matched case-insensitively anywhere in a key.
var sensitivePatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"KEY",
	"CREDENTIALS",
}

// IsSensitiveKey reports whether a key names a value that must not be shown verbatim.
func IsSensitiveKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// Mask obfuscates a value for display. Values of four characters or fewer
// are replaced entirely; longer values keep their first and last two
// characters. The result is not reversible and is not meant as protection
// at rest.
func Mask(value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return Placeholder
	}
	return string(runes[:2]) + Placeholder + string(runes[len(runes)-2:])
}

// Value masks value only when key is sensitive.
func Value(key, value string) string {
	if IsSensitiveKey(key) {
		return Mask(value)
	}
	return value
}

// Map returns a copy of vars with every sensitive value masked.
func Map(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = Value(k, v)
	}
	return out
}

// Fingerprint returns a short stable digest of value, so two masked values
// can be compared without revealing either of them.
func Fingerprint(value string) string {
	sum := blake2b.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
