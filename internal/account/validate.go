package account

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	upperRE   = regexp.MustCompile(`[A-Z]`)
	lowerRE   = regexp.MustCompile(`[a-z]`)
	digitRE   = regexp.MustCompile(`[0-9]`)
	specialRE = regexp.MustCompile(`[!@#$%^&*()_+=-]`)
	emailRE   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRE   = regexp.MustCompile(`^[6789]\d{9}$`)
)

// RegistrationInput carries the raw registration form fields.
type RegistrationInput struct {
	Username    string
	Password    string
	Email       string
	PhoneNo     string
	DateOfBirth string
	Profession  string
	Gender      string
	ProfilePic  []byte
}

// ValidateRegistration checks the form fields and returns the first
// validation failure as a user-facing error. No write happens on failure.
func ValidateRegistration(in RegistrationInput) error {
	if in.Username == "" || in.Password == "" || in.Email == "" || in.PhoneNo == "" ||
		in.Gender == "" || in.Gender == "Select" {
		return errors.New("please fill in all required fields")
	}

	if err := ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if !phoneRE.MatchString(in.PhoneNo) {
		return errors.New("phone number must be 10 digits and start with 6, 7, 8 or 9")
	}
	return nil
}

// ValidatePassword enforces length and character-class requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 ||
		!upperRE.MatchString(password) ||
		!lowerRE.MatchString(password) ||
		!digitRE.MatchString(password) ||
		!specialRE.MatchString(password) {
		return errors.New("password must be at least 8 characters and include an uppercase letter, a lowercase letter, a digit, and a special character")
	}
	return nil
}

// ValidateEmail requires a simple address shape with no uppercase letters.
func ValidateEmail(email string) error {
	if !emailRE.MatchString(email) {
		return errors.New("please enter a valid email address")
	}
	if upperRE.MatchString(email) {
		return errors.New("email must not contain any capital letters")
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
