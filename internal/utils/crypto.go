package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Sha256Hex hashes a string with SHA-256 and returns the hex digest.
// Also used standalone for the emergency-code check.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// PasswordHash builds the salted credential hash stored for admins:
// sha256(lower(email) :: password :: salt). The format is shared with
// backup snapshots produced by earlier releases and must not change.
func PasswordHash(email, password, salt string) string {
	raw := strings.ToLower(strings.TrimSpace(email)) + "::" + password + "::" + salt
	return Sha256Hex(raw)
}

// SecureCompare reports whether two digests match, in constant time.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenerateSalt returns a random hex salt for a new admin credential.
func GenerateSalt() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
