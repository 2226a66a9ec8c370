package database

import (
	"errors"
	"testing"

	"github.com/reelcut/reelcut/internal/account"
	"github.com/reelcut/reelcut/internal/models"
)

func testUser(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := account.HashPassword("Abc123!@")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		Username:     "testuser",
		PasswordHash: hash,
		Email:        email,
		PhoneNo:      "9876543210",
		DateOfBirth:  "1995-04-12",
		Profession:   "Engineer",
		Gender:       "Female",
		ProfilePic:   []byte{0xff, 0xd8, 0xff},
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := testUser(t, "user@test.com")
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := repo.GetUserByEmail("user@test.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}

	if got.Username != user.Username {
		t.Errorf("expected username %q, got %q", user.Username, got.Username)
	}
	if got.PhoneNo != user.PhoneNo {
		t.Errorf("expected phone %q, got %q", user.PhoneNo, got.PhoneNo)
	}
	if got.DateOfBirth != user.DateOfBirth {
		t.Errorf("expected dob %q, got %q", user.DateOfBirth, got.DateOfBirth)
	}
	if len(got.ProfilePic) != len(user.ProfilePic) {
		t.Errorf("profile picture blob mismatch: %d vs %d bytes", len(got.ProfilePic), len(user.ProfilePic))
	}
}

func TestUserRepository_GetUserByEmail_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetUserByEmail("missing@test.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.CreateUser(testUser(t, "dup@test.com")); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(testUser(t, "dup@test.com")); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestUserRepository_VerifyLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	if err := repo.CreateUser(testUser(t, "login@test.com")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	ok, err := repo.VerifyLogin("login@test.com", "Abc123!@")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if !ok {
		t.Error("correct credentials should verify")
	}

	ok, err = repo.VerifyLogin("login@test.com", "Wrong123!@")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}

	ok, err = repo.VerifyLogin("nobody@test.com", "Abc123!@")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if ok {
		t.Error("unknown email should not verify")
	}
}
