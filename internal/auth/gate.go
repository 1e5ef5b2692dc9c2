package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"babytrack/internal/store"
	"babytrack/internal/user"
)

var ErrForbidden = errors.New("forbidden")

// TokenFromHeader returns the raw token of an Authorization header value.
// The "Bearer " scheme is optional.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// ResolveRequestor maps an Authorization header to its user. An empty or
// unknown token yields nil without error.
func ResolveRequestor(ctx context.Context, st store.Store, header string) (*user.User, error) {
	token := TokenFromHeader(header)
	if token == "" {
		return nil, nil
	}
	u, err := st.FindUserByToken(ctx, token)
	if err != nil || u == nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(u.Token), []byte(token)) != 1 {
		return nil, nil
	}
	return u, nil
}

func RequireAdmin(requestor *user.User) error {
	if !requestor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
