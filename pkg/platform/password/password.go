// Package password wraps bcrypt hashing so raw credentials never reach a
// store and hashes are comparable without exposing cost parameters.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a bcrypt hash from a raw credential.
func Hash(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	return string(b), err
}

// Verify reports whether the raw credential matches the stored hash.
func Verify(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
