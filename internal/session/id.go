package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const idBytes = 32 // 256 bits

// IDLength is the length of an encoded session id.
var IDLength = base64.RawURLEncoding.EncodedLen(idBytes)

// GenerateID generates a cryptographically secure session ID.
func GenerateID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidID reports whether id has the shape of a generated session id.
// Stores use it to skip lookups for obviously forged values.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
