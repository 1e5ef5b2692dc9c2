package store

import (
	"context"
	"errors"
	"fmt"

	"babytrack/internal/event"
	"babytrack/internal/user"

	"gorm.io/gorm"
)

// GormStore implements Store on a gorm connection opened with TranslateError.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateEvent(ctx context.Context, e *event.Event) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return translate("create event", err)
	}
	return nil
}

func (s *GormStore) FindEvents(ctx context.Context, filter EventFilter) ([]event.Event, error) {
	q := s.db.WithContext(ctx).Model(&event.Event{}).Order("id ASC")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	events := []event.Event{}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return events, nil
}

func (s *GormStore) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&event.Event{}, "id = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete event %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *user.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate("create user", err)
	}
	return nil
}

func (s *GormStore) FindUsers(ctx context.Context) ([]user.User, error) {
	users := []user.User{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (s *GormStore) FindUserByUUID(ctx context.Context, uuid string) (*user.User, error) {
	return s.findUser(ctx, "uuid = ?", uuid)
}

func (s *GormStore) FindUserByToken(ctx context.Context, token string) (*user.User, error) {
	return s.findUser(ctx, "token = ?", token)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) findUser(ctx context.Context, query string, arg string) (*user.User, error) {
	var u user.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *GormStore) DeleteUser(ctx context.Context, uuid string) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&user.User{}, "uuid = ?", uuid)
	if res.Error != nil {
		return 0, fmt.Errorf("delete user %s: %w", uuid, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrConstraintViolation)
	}
	return fmt.Errorf("%s: %w", op, err)
}
