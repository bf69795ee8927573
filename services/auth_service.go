package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// AuthService checks the single shared staff password. There is no user
// table: the back office is guarded by one password whose bcrypt hash comes
// from configuration.
type AuthService interface {
	Login(ctx context.Context, password string) error
}

type authService struct {
	passwordHash []byte
}

func NewAuthService(passwordHash string) AuthService {
	return &authService{passwordHash: []byte(passwordHash)}
}

func (s *authService) Login(_ context.Context, password string) error {
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
