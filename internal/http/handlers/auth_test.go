package handlers_test

import (
	"net/http"
	"testing"
)

type authData struct {
	User struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"user"`
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Data    authData `json:"data"`
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":" Ada@Example.COM ","password":"correct-horse","password_confirm":"correct-horse","first_name":"Ada","last_name":"Lovelace"}`,

			wantStatus: http.StatusCreated,
		},
		{
			name:       "short_password",
			body:       `{"email":"bob@example.com","password":"abc","password_confirm":"abc","first_name":"Bob","last_name":"Barker"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "password_mismatch",
			body:       `{"email":"bob@example.com","password":"correct-horse","password_confirm":"wrong-horse","first_name":"Bob","last_name":"Barker"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "malformed_email",
			body:       `{"email":"nope","password":"correct-horse","password_confirm":"correct-horse","first_name":"Bob","last_name":"Barker"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "blank_first_name",
			body:       `{"email":"bob@example.com","password":"correct-horse","password_confirm":"correct-horse","first_name":"   ","last_name":"Barker"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "invalid_json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			a := setupAPI(t)

			w := doRequest(a.router, http.MethodPost, "/auth/register", tt.body, "")

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				var resp errorResponse
				mustReadJSON(t, w, &resp)

				if resp.Error != tt.wantCode || resp.Success {
					t.Fatalf("got error %q success=%v, want %q", resp.Error, resp.Success, tt.wantCode)
				}
			}
		})
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	a := setupAPI(t)

	body := `{"email":" Ada@Example.COM ","password":"correct-horse","password_confirm":"correct-horse","first_name":"Ada","last_name":"Lovelace"}`

	w := doRequest(a.router, http.MethodPost, "/auth/register", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d body=%s", w.Code, w.Body.String())
	}

	var resp authResponse
	mustReadJSON(t, w, &resp)

	if !resp.Success {
		t.Fatal("success flag not set")
	}

	if resp.Data.User.Email != "ada@example.com" {
		t.Fatalf("email stored as %q, want normalized", resp.Data.User.Email)
	}

	if resp.Data.Tokens.Access == "" || resp.Data.Tokens.Refresh == "" {
		t.Fatal("token pair missing from registration response")
	}

	// login with the original casing must still succeed
	w = doRequest(a.router, http.MethodPost, "/auth/login", `{"email":"Ada@Example.COM","password":"correct-horse"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login with original-cased email failed: %d body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterTokensBelongToCreatedUser(t *testing.T) {
	a := setupAPI(t)

	body := `{"email":"ada@example.com","password":"correct-horse","password_confirm":"correct-horse","first_name":"Ada","last_name":"Lovelace"}`

	w := doRequest(a.router, http.MethodPost, "/auth/register", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d body=%s", w.Code, w.Body.String())
	}

	var resp authResponse
	mustReadJSON(t, w, &resp)

	claims, err := a.jwt.VerifyAccessToken(resp.Data.Tokens.Access)

	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}

	if claims.UserID != resp.Data.User.ID {
		t.Fatalf("token minted for %q, user row is %q", claims.UserID, resp.Data.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := setupAPI(t)

	body := `{"email":"ada@example.com","password":"correct-horse","password_confirm":"correct-horse","first_name":"Ada","last_name":"Lovelace"}`

	w := doRequest(a.router, http.MethodPost, "/auth/register", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", w.Code)
	}

	w = doRequest(a.router, http.MethodPost, "/auth/register", body, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d, want 400", w.Code)
	}

	var resp errorResponse
	mustReadJSON(t, w, &resp)

	if resp.Error != "DUPLICATE_ERROR" {
		t.Fatalf("got error %q, want DUPLICATE_ERROR", resp.Error)
	}
}

func TestLoginDoesNotLeakWhichCredentialFailed(t *testing.T) {
	a := setupAPI(t)
	a.seedUser(t, "ada@example.com", "correct-horse")

	wrongPassword := doRequest(a.router, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`, "")
	unknownEmail := doRequest(a.router, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"wrong"}`, "")

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: %d vs %d, want both 401", wrongPassword.Code, unknownEmail.Code)
	}

	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}

	var resp errorResponse
	mustReadJSON(t, wrongPassword, &resp)

	if resp.Error != "AUTHENTICATION_ERROR" {
		t.Fatalf("got error %q, want AUTHENTICATION_ERROR", resp.Error)
	}
}

func TestLoginSuccess(t *testing.T) {
	a := setupAPI(t)
	a.seedUser(t, "ada@example.com", "correct-horse")

	w := doRequest(a.router, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"correct-horse"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", w.Code, w.Body.String())
	}

	var resp authResponse
	mustReadJSON(t, w, &resp)

	if resp.Data.Tokens.Access == "" || resp.Data.Tokens.Refresh == "" {
		t.Fatal("token pair missing from login response")
	}
}

func TestRefresh(t *testing.T) {
	a := setupAPI(t)
	u, _ := a.seedUser(t, "ada@example.com", "correct-horse")

	pair, err := a.jwt.IssuePair(u.ID, u.Email)

	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	w := doRequest(a.router, http.MethodPost, "/auth/token/refresh", `{"refresh":"`+pair.Refresh+`"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Access string `json:"access"`
	}
	mustReadJSON(t, w, &resp)

	if _, err := a.jwt.VerifyAccessToken(resp.Access); err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}

	// an access token is not a refresh token
	w = doRequest(a.router, http.MethodPost, "/auth/token/refresh", `{"refresh":"`+pair.Access+`"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("access-as-refresh: got %d, want 401", w.Code)
	}

	w = doRequest(a.router, http.MethodPost, "/auth/token/refresh", `{"refresh":"garbage"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage refresh: got %d, want 401", w.Code)
	}
}

func TestProfile(t *testing.T) {
	a := setupAPI(t)
	u, token := a.seedUser(t, "ada@example.com", "correct-horse")

	// unauthenticated
	w := doRequest(a.router, http.MethodGet, "/auth/profile", "", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated profile: got %d, want 401", w.Code)
	}

	var errResp errorResponse
	mustReadJSON(t, w, &errResp)

	if errResp.Error != "AUTHENTICATION_ERROR" {
		t.Fatalf("got error %q, want AUTHENTICATION_ERROR", errResp.Error)
	}

	// read
	w = doRequest(a.router, http.MethodGet, "/auth/profile", "", token)

	if w.Code != http.StatusOK {
		t.Fatalf("get profile: %d body=%s", w.Code, w.Body.String())
	}

	var view struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	mustReadJSON(t, w, &view)

	if view.ID != u.ID || view.Email != u.Email {
		t.Fatalf("profile mismatch: %+v", view)
	}

	// update
	w = doRequest(a.router, http.MethodPut, "/auth/profile", `{"first_name":" Grace ","last_name":"Hopper"}`, token)

	if w.Code != http.StatusOK {
		t.Fatalf("update profile: %d body=%s", w.Code, w.Body.String())
	}

	var updated struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	mustReadJSON(t, w, &updated)

	if updated.FirstName != "Grace" || updated.LastName != "Hopper" {
		t.Fatalf("profile not updated/trimmed: %+v", updated)
	}

	// blank name rejected
	w = doRequest(a.router, http.MethodPut, "/auth/profile", `{"first_name":"  ","last_name":"Hopper"}`, token)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name: got %d, want 400", w.Code)
	}

	mustReadJSON(t, w, &errResp)

	if errResp.Error != "VALIDATION_ERROR" {
		t.Fatalf("got error %q, want VALIDATION_ERROR", errResp.Error)
	}

	// PATCH behaves like PUT
	w = doRequest(a.router, http.MethodPatch, "/auth/profile", `{"first_name":"Grace","last_name":"Hopper"}`, token)

	if w.Code != http.StatusOK {
		t.Fatalf("patch profile: %d body=%s", w.Code, w.Body.String())
	}
}
