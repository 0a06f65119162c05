package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
)

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, u *UserDB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly.fakehashfortestingonly12345678",
	}
	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	user := &model.User{
		Username:     "ana",
		Email:        "ana@club.org",
		PasswordHash: "some-hash",
		IsAdmin:      true,
	}

	if err := u.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "first", "dup@club.org")

	err := u.Create(context.Background(), &model.User{
		Username:     "second",
		Email:        "dup@club.org",
		PasswordHash: "hash",
	})
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("Create() error = %v, want ErrDuplicate", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not an *apperror.AppError: %v", err)
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
	if appErr.Message != "Email already registered" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Email already registered")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "taken", "a@club.org")

	err := u.Create(context.Background(), &model.User{
		Username:     "taken",
		Email:        "b@club.org",
		PasswordHash: "hash",
	})
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("Create() error = %v, want ErrDuplicate", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error is not an *apperror.AppError: %v", err)
	}
	if appErr.Field != "username" {
		t.Errorf("Field = %q, want %q", appErr.Field, "username")
	}
	if appErr.Message != "Username already taken" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Username already taken")
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	u := newTestDB(t).Users()

	created := createTestUser(t, u, "ana", "ana@club.org")

	got, err := u.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "ana" || got.Email != "ana@club.org" {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail_IncludesHash(t *testing.T) {
	u := newTestDB(t).Users()

	created := createTestUser(t, u, "ana", "ana@club.org")

	got, err := u.GetByEmail(context.Background(), "ana@club.org")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	// Login needs the full record including the hash
	if got.PasswordHash != created.PasswordHash {
		t.Error("GetByEmail() did not return the stored password hash")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	u := newTestDB(t).Users()

	_, err := u.GetByEmail(context.Background(), "ghost@club.org")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestUserList(t *testing.T) {
	u := newTestDB(t).Users()

	createTestUser(t, u, "ana", "ana@club.org")
	createTestUser(t, u, "ben", "ben@club.org")

	users, err := u.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(List()) = %d, want 2", len(users))
	}
}

func TestUserList_Empty(t *testing.T) {
	u := newTestDB(t).Users()

	users, err := u.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(users))
	}
}
