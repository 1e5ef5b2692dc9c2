package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what a user token binds. Password carries the stored hash, never
// the raw password.
type Claims struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a non-expiring user token. The random jti keeps tokens
// unique even for identical claims issued within the same second.
func GenerateJWT(secret, userUUID, name, passwordHash, email string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	claims := Claims{
		UUID:     userUUID,
		Name:     name,
		Password: passwordHash,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
