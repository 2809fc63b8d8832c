package utils

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrUnknownPasswordMode is returned by NewPasswordHasher for modes other
// than "bcrypt" and "plaintext".
var ErrUnknownPasswordMode = errors.New("unknown password mode")

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordHasher turns a plain password into its stored form and checks a
// candidate against a stored value.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(stored, plain string) bool
}

// NewPasswordHasher returns the hasher for mode.  "plaintext" exists only
// to keep legacy login tables working and stores passwords as given.
func NewPasswordHasher(mode string, cost int) (PasswordHasher, error) {
	switch mode {
	case "bcrypt":
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		return bcryptHasher{cost: cost}, nil
	case "plaintext":
		return plaintextHasher{}, nil
	}
	return nil, ErrUnknownPasswordMode
}

type bcryptHasher struct{ cost int }

func (h bcryptHasher) Hash(plain string) (string, error) { return HashPassword(plain, h.cost) }
func (h bcryptHasher) Verify(stored, plain string) bool  { return VerifyPassword(stored, plain) }

type plaintextHasher struct{}

func (plaintextHasher) Hash(plain string) (string, error) { return plain, nil }
func (plaintextHasher) Verify(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
