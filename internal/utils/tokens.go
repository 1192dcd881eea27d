package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.NewString()
}

// NewToken returns 32 random bytes, hex encoded. Used for unsubscribe links.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var maskPattern = regexp.MustCompile(`^(.{2}).*(@.*)$`)

// MaskEmail keeps the first two characters of the local part and the domain:
// "jane@example.com" becomes "ja***@example.com".
func MaskEmail(email string) string {
	if !maskPattern.MatchString(email) {
		return email
	}
	return maskPattern.ReplaceAllString(email, "$1***$2")
}
