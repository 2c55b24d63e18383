package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHasher is used when the service is created without explicit hasher
var DefaultHasher = BcryptHasher{}

// Bcrypt password hasher
// The password is pre-hashed with sha256 to lift the 72 byte bcrypt input limit,
// bcrypt itself embeds a random salt into every produced hash
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

// Compare returns nil only if password matches the stored hash
// Any malformed or empty stored hash compares as mismatch, it never panics
func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
