package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"babytrack/internal/event"
	"babytrack/internal/user"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int

func setupStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:store_%d?mode=memory&cache=shared", dbSeq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&user.User{}, &event.Event{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormStore(conn), conn
}

func newEvent(userID int64, kind string) *event.Event {
	return &event.Event{
		Date:    time.Date(2019, 6, 4, 12, 59, 0, 0, time.UTC),
		Type:    kind,
		Nature:  "normale",
		Volume:  "+++",
		Context: []string{"fuite", "gaz"},
		UserID:  &userID,
	}
}

func newUser(uuid, email, token string, role user.Role) *user.User {
	return &user.User{UUID: uuid, Name: "n-" + uuid, Password: "hash", Email: email, Role: role, Token: token}
}

func TestEvents_CreateFindOrder(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	all, err := s.FindEvents(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("find on empty table: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", all)
	}

	for i, e := range []*event.Event{newEvent(1, "a"), newEvent(2, "b"), newEvent(1, "c")} {
		if err := s.CreateEvent(ctx, e); err != nil {
			t.Fatalf("create event %d: %v", i, err)
		}
		if e.ID == 0 {
			t.Fatalf("event %d has no id", i)
		}
	}

	all, err = s.FindEvents(ctx, EventFilter{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 3 || all[0].Type != "a" || all[1].Type != "b" || all[2].Type != "c" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if got := all[0].Context; len(got) != 2 || got[0] != "fuite" {
		t.Errorf("context not round-tripped: %v", got)
	}

	uid := int64(1)
	mine, err := s.FindEvents(ctx, EventFilter{UserID: &uid})
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if len(mine) != 2 || mine[0].Type != "a" || mine[1].Type != "c" {
		t.Errorf("unexpected filtered events: %+v", mine)
	}

	none := int64(9999)
	empty, err := s.FindEvents(ctx, EventFilter{UserID: &none})
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty result, got %v, %v", empty, err)
	}
}

func TestEvents_DeleteCount(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	n, err := s.DeleteEvent(ctx, 1)
	if err != nil || n != 0 {
		t.Fatalf("delete missing: n=%d err=%v", n, err)
	}
	e := newEvent(1, "a")
	if err := s.CreateEvent(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err = s.DeleteEvent(ctx, e.ID)
	if err != nil || n != 1 {
		t.Fatalf("delete existing: n=%d err=%v", n, err)
	}
	n, _ = s.DeleteEvent(ctx, e.ID)
	if n != 0 {
		t.Errorf("second delete should remove nothing, got %d", n)
	}
}

func TestUsers_CreateAndLookups(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	u1 := newUser("1753df50-9cbf-11e9-bf9b-6da555a5236b", "jojo@gmail.com", "myToken1", user.RoleAdmin)
	u2 := newUser("1753df50-9cbf-11e9-bf9b-6da555a5236c", "floflo@gmail.com", "myToken2", user.RoleStandard)
	for _, u := range []*user.User{u1, u2} {
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	users, err := s.FindUsers(ctx)
	if err != nil || len(users) != 2 || users[0].Email != "jojo@gmail.com" {
		t.Fatalf("unexpected users %+v err=%v", users, err)
	}

	got, err := s.FindUserByUUID(ctx, u2.UUID)
	if err != nil || got == nil || got.Email != "floflo@gmail.com" {
		t.Errorf("by uuid: %+v %v", got, err)
	}
	got, err = s.FindUserByToken(ctx, "myToken1")
	if err != nil || got == nil || got.UUID != u1.UUID {
		t.Errorf("by token: %+v %v", got, err)
	}
	got, err = s.FindUserByEmail(ctx, "floflo@gmail.com")
	if err != nil || got == nil || got.UUID != u2.UUID {
		t.Errorf("by email: %+v %v", got, err)
	}

	got, err = s.FindUserByToken(ctx, "unknown")
	if err != nil || got != nil {
		t.Errorf("unknown token should give nil, nil; got %+v %v", got, err)
	}
	got, err = s.FindUserByEmail(ctx, "JOJO@gmail.com")
	if err != nil || got != nil {
		t.Errorf("email match must be case-sensitive; got %+v %v", got, err)
	}

	count, err := s.CountUsers(ctx)
	if err != nil || count != 2 {
		t.Errorf("count: %d %v", count, err)
	}
}

func TestUsers_ConstraintViolation(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, newUser("u-1", "a@b.c", "tok-1", user.RoleAdmin)); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.CreateUser(ctx, newUser("u-2", "a@b.c", "tok-2", user.RoleAdmin))
	if !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("duplicate email: expected ErrConstraintViolation, got %v", err)
	}
	err = s.CreateUser(ctx, newUser("u-3", "x@b.c", "tok-1", user.RoleAdmin))
	if !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("duplicate token: expected ErrConstraintViolation, got %v", err)
	}
	count, _ := s.CountUsers(ctx)
	if count != 1 {
		t.Errorf("failed creates must not add rows, got %d", count)
	}
}

func TestUsers_DeleteIdempotent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	u := newUser("1753df50-9cbf-11e9-bf9b-6da555a523dd", "myMail@gmail.com", "tok", user.RoleStandard)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n, err := s.DeleteUser(ctx, u.UUID); err != nil || n != 1 {
		t.Fatalf("first delete: %d %v", n, err)
	}
	if n, err := s.DeleteUser(ctx, u.UUID); err != nil || n != 0 {
		t.Fatalf("second delete: %d %v", n, err)
	}
}

func TestStore_ErrorsAreReported(t *testing.T) {
	s, conn := setupStore(t)
	if err := conn.Migrator().DropTable(&event.Event{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := s.FindEvents(context.Background(), EventFilter{}); err == nil {
		t.Errorf("missing table should surface an error")
	}
	if err := s.CreateEvent(context.Background(), newEvent(1, "a")); err == nil || errors.Is(err, ErrConstraintViolation) {
		t.Errorf("expected plain store error, got %v", err)
	}
}
