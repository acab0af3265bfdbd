package user

import (
	"time"

	"github.com/google/uuid"
)

// NewFromRegisterRequest builds a User from an already-validated registration
// payload. The password hash is supplied by the caller.
func NewFromRegisterRequest(req RegisterRequest, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
