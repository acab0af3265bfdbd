package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NormalizeEmail lowercases and trims an email before any lookup or insert,
// so the stored form is canonical regardless of how the client typed it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Field-level validators; each returns the first problem it finds.

func ValidateEmail(email string) (string, error) {
	email = NormalizeEmail(email)

	if email == "" {
		return "", errors.New("Email is required.")
	}

	_, err := mail.ParseAddress(email)

	if err != nil {
		return "", errors.New("Email must be a valid email address.")
	}

	return email, nil
}

func ValidatePassword(password, confirm string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters.")
	}

	if password != confirm {
		return errors.New("Passwords do not match.")
	}

	return nil
}

func ValidateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return "", errors.New(field + " is required.")
	}

	return value, nil
}

// Validate checks a registration payload and returns a normalized copy
// (canonical email, trimmed names) or the first validation failure.
func (r RegisterRequest) Validate() (RegisterRequest, error) {
	email, err := ValidateEmail(r.Email)

	if err != nil {
		return RegisterRequest{}, err
	}

	err = ValidatePassword(r.Password, r.PasswordConfirm)

	if err != nil {
		return RegisterRequest{}, err
	}

	first, err := ValidateName("First name", r.FirstName)

	if err != nil {
		return RegisterRequest{}, err
	}

	last, err := ValidateName("Last name", r.LastName)

	if err != nil {
		return RegisterRequest{}, err
	}

	r.Email = email
	r.FirstName = first
	r.LastName = last

	return r, nil
}

func (r UpdateProfileRequest) Validate() (UpdateProfileRequest, error) {
	first, err := ValidateName("First name", r.FirstName)

	if err != nil {
		return UpdateProfileRequest{}, err
	}

	last, err := ValidateName("Last name", r.LastName)

	if err != nil {
		return UpdateProfileRequest{}, err
	}

	return UpdateProfileRequest{FirstName: first, LastName: last}, nil
}
