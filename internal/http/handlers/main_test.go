package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/calloway/itemvault/internal/auth"
	"github.com/calloway/itemvault/internal/domain/user"
	apphttp "github.com/calloway/itemvault/internal/http"
	"github.com/calloway/itemvault/internal/http/handlers"
	"github.com/calloway/itemvault/internal/http/middlewares"
	"github.com/calloway/itemvault/internal/ratelimit"
	"github.com/calloway/itemvault/internal/repo/memory"
	"github.com/calloway/itemvault/internal/security"
	"github.com/gin-gonic/gin"
)

// Make sure gin does not spam the console during the tests

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	router *gin.Engine
	users  *memory.UsersRepo
	items  *memory.ItemsRepo
	jwt    *auth.Manager
}

// setupAPI mounts the full route table over the in-memory repos, so handler
// tests exercise routing, auth middleware and envelopes together.
func setupAPI(t *testing.T) *api {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := memory.NewUsersRepo()
	items := memory.NewItemsRepo()
	jwtManager := auth.NewManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)

	r := gin.New()
	r.Use(apphttp.RequestID())

	apphttp.RegisterRoutes(
		r,
		handlers.NewAuthHandler(users, jwtManager, log),
		handlers.NewItemsHandler(items, log),
		middlewares.NewAuthMiddleware(jwtManager),
		ratelimit.NewMemoryLimiter(1000, time.Minute),
	)

	return &api{router: r, users: users, items: items, jwt: jwtManager}
}

// seedUser creates a user directly in the store and returns it with a valid
// access token, skipping the register endpoint.
func (a *api) seedUser(t *testing.T, email, password string) (user.User, string) {
	t.Helper()

	hash, err := security.HashPassword(password)

	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	req := user.RegisterRequest{
		Email:     user.NormalizeEmail(email),
		FirstName: "Test",
		LastName:  "User",
	}

	u, err := a.users.Create(context.Background(), user.NewFromRegisterRequest(req, hash))

	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	pair, err := a.jwt.IssuePair(u.ID, u.Email)

	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	return u, pair.Access
}

func doRequest(router http.Handler, method, path, body, accessToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
