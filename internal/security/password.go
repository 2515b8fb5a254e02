package security

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain text password with bcrypt. The salt is
// embedded in the digest, so two calls with the same input differ.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.
// bcrypt's comparison is constant time with respect to the guess.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// IsStrongPassword enforces the registration password policy:
// at least 8 characters, one uppercase letter and one digit.
func IsStrongPassword(plain string) bool {
	// characters, not bytes
	if utf8.RuneCountInString(plain) < 8 {
		return false
	}

	var hasUpper, hasDigit bool

	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasDigit
}
