package credentials

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// errSecretMismatch is internal; callers of the store only ever see
// ErrInvalidCredentials.
var errSecretMismatch = errors.New("secret mismatch")

// SecretHasher transforms account secrets before storage and checks
// candidates against the stored form. The store itself never interprets
// secrets; hashing policy is injected here, at the boundary.
type SecretHasher interface {
	Hash(secret string) (string, error)
	// Compare returns nil when candidate matches stored.
	Compare(stored, candidate string) error
}

// PlainHasher stores secrets as-is. This is the historical on-disk
// format; registries written by earlier releases only validate with it.
type PlainHasher struct{}

func (PlainHasher) Hash(secret string) (string, error) { return secret, nil }

func (PlainHasher) Compare(stored, candidate string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 0 {
		return errSecretMismatch
	}
	return nil
}

// BcryptHasher stores bcrypt hashes. Enabled via configuration; not
// compatible with registries written in plain form.
type BcryptHasher struct {
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func (h BcryptHasher) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(stored, candidate string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)); err != nil {
		return errSecretMismatch
	}
	return nil
}
