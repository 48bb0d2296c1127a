package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently truncates input beyond 72 bytes; reject instead so two
// long passwords sharing a prefix can never verify against each other.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword when the plain password
// exceeds the bcrypt input limit.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// HashPassword bcrypt-hashes a plain password with the configured cost.
func HashPassword(plain string, cost int) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
