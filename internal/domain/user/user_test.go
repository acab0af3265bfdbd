package user_test

import (
	"testing"

	"github.com/calloway/itemvault/internal/domain/user"
)

func TestNormalizeEmail(t *testing.T) {
	got := user.NormalizeEmail("  John.Doe@Example.COM ")

	if got != "john.doe@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := user.RegisterRequest{
		Email:           "Ada@Example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
		FirstName:       "  Ada ",
		LastName:        "Lovelace",
	}

	tests := []struct {
		name    string
		mutate  func(r *user.RegisterRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *user.RegisterRequest) {}},
		{
			name:    "malformed_email",
			mutate:  func(r *user.RegisterRequest) { r.Email = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "missing_email",
			mutate:  func(r *user.RegisterRequest) { r.Email = "  " },
			wantErr: true,
		},
		{
			name:    "short_password",
			mutate:  func(r *user.RegisterRequest) { r.Password = "abc"; r.PasswordConfirm = "abc" },
			wantErr: true,
		},
		{
			name:    "password_mismatch",
			mutate:  func(r *user.RegisterRequest) { r.PasswordConfirm = "something-else" },
			wantErr: true,
		},
		{
			name:    "blank_first_name",
			mutate:  func(r *user.RegisterRequest) { r.FirstName = "   " },
			wantErr: true,
		},
		{
			name:    "blank_last_name",
			mutate:  func(r *user.RegisterRequest) { r.LastName = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			out, err := req.Validate()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.Email != "ada@example.com" {
				t.Fatalf("email not normalized: %q", out.Email)
			}

			if out.FirstName != "Ada" {
				t.Fatalf("first name not trimmed: %q", out.FirstName)
			}
		})
	}
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	_, err := user.UpdateProfileRequest{FirstName: " ", LastName: "Doe"}.Validate()

	if err == nil {
		t.Fatal("blank first name accepted")
	}

	out, err := user.UpdateProfileRequest{FirstName: " Jane ", LastName: " Doe "}.Validate()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.FirstName != "Jane" || out.LastName != "Doe" {
		t.Fatalf("names not trimmed: %+v", out)
	}
}
