package store

import (
	"context"
	"errors"

	"babytrack/internal/event"
	"babytrack/internal/user"
)

// ErrConstraintViolation is returned when a create would break a uniqueness
// constraint (duplicate user email or token).
var ErrConstraintViolation = errors.New("constraint violation")

// EventFilter narrows FindEvents. The zero value matches every event.
type EventFilter struct {
	UserID *int64
}

// Store defines persistence operations for events and users.
// Finds never fail on an empty match: they return an empty slice or a nil record.
type Store interface {
	// events
	CreateEvent(ctx context.Context, e *event.Event) error
	FindEvents(ctx context.Context, filter EventFilter) ([]event.Event, error)
	DeleteEvent(ctx context.Context, id int64) (int64, error)

	// users
	CreateUser(ctx context.Context, u *user.User) error
	FindUsers(ctx context.Context) ([]user.User, error)
	FindUserByUUID(ctx context.Context, uuid string) (*user.User, error)
	FindUserByToken(ctx context.Context, token string) (*user.User, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	DeleteUser(ctx context.Context, uuid string) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
}
