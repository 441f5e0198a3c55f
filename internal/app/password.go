package app

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/semla/internal/apperr"
)

var hashCost = bcrypt.DefaultCost

var (
	dummyOnce sync.Once
	dummyHash []byte
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err, "failed to hash password")
	}
	return string(hash), nil
}

// checkPassword compares against a dummy hash when the account is unknown so both
// failure paths cost the same and return the same error.
func checkPassword(hash *string, password string) error {
	target := []byte(nil)
	if hash != nil {
		target = []byte(*hash)
	} else {
		dummyOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("semla-dummy-password"), hashCost)
		})
		target = dummyHash
	}

	err := bcrypt.CompareHashAndPassword(target, []byte(password))
	if err != nil || hash == nil {
		return apperr.New(apperr.Unauthorized, "Invalid username or password")
	}
	return nil
}
