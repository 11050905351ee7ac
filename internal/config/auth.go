package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/lgbarn/chess-server-go/internal/errors"
)

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	// BcryptCost is the work factor for password hashes.
	BcryptCost int
}

// NewAuthConfig creates an AuthConfig with default values.
func NewAuthConfig() *AuthConfig {
	return &AuthConfig{BcryptCost: bcrypt.DefaultCost}
}

// Validate checks the cost against bcrypt's accepted range.
func (a *AuthConfig) Validate() error {
	if a.BcryptCost < bcrypt.MinCost || a.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d outside [%d, %d]: %w",
			a.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost, errors.ErrInvalidConfig)
	}
	return nil
}
