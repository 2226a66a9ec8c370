package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelcut/reelcut/internal/account"
	"github.com/reelcut/reelcut/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user record. The password must already be hashed.
func (r *UserRepository) CreateUser(user *models.User) error {
	query := r.db.rebind(`
		INSERT INTO users (email, username, password_hash, phone_no, date_of_birth, profession, gender, profile_pic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.conn.Exec(query,
		user.Email, user.Username, user.PasswordHash, user.PhoneNo,
		user.DateOfBirth, user.Profession, user.Gender, user.ProfilePic)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the full user record, or ErrUserNotFound.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := r.db.rebind(`
		SELECT email, username, password_hash, phone_no, date_of_birth, profession, gender, profile_pic
		FROM users WHERE email = ?`)

	var user models.User
	var dob, profession, gender sql.NullString
	err := r.db.conn.QueryRow(query, email).Scan(
		&user.Email, &user.Username, &user.PasswordHash, &user.PhoneNo,
		&dob, &profession, &gender, &user.ProfilePic)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.DateOfBirth = dob.String
	user.Profession = profession.String
	user.Gender = gender.String
	return &user, nil
}

// VerifyLogin reports whether the credentials match a stored user. An
// unknown email yields false with no error; database failures are returned
// for the caller to surface generically.
func (r *UserRepository) VerifyLogin(email, password string) (bool, error) {
	query := r.db.rebind(`SELECT password_hash FROM users WHERE email = ?`)

	var hash string
	err := r.db.conn.QueryRow(query, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to verify login: %w", err)
	}

	return account.CheckPassword(hash, password), nil
}
