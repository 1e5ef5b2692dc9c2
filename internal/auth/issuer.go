package auth

import (
	"context"
	"errors"
	"fmt"

	"babytrack/internal/store"
	"babytrack/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Seed admin credentials, created on an empty users table.
const (
	SeedAdminName     = "admin"
	SeedAdminPassword = "admin"
	SeedAdminEmail    = "admin@upday.com"
)

// Issuer mints credentials for new users.
type Issuer struct {
	secret string
}

func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Issuer{secret: secret}, nil
}

// NewUser builds an unsaved user with a fresh uuid, hashed password and
// signed token.
func (i *Issuer) NewUser(name, password, email string, role user.Role) (*user.User, error) {
	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	token, err := GenerateJWT(i.secret, id, name, hash, email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &user.User{
		UUID:     id,
		Name:     name,
		Password: hash,
		Email:    email,
		Role:     role,
		Token:    token,
	}, nil
}

// EnsureAdmin creates the seed admin when no user exists yet and reports
// whether it did.
func EnsureAdmin(ctx context.Context, st store.Store, issuer *Issuer, log *zap.Logger) (bool, error) {
	count, err := st.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	admin, err := issuer.NewUser(SeedAdminName, SeedAdminPassword, SeedAdminEmail, user.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	log.Info("seeded admin user", zap.String("uuid", admin.UUID), zap.String("email", admin.Email))
	return true, nil
}
