package security

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// CheckDashboardPassword verifies the technician password. A bcrypt hash
// takes precedence when configured; otherwise the plain configured password
// is compared in constant time.
func CheckDashboardPassword(candidate, plain, hash string) bool {
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(plain)) == 1
}
