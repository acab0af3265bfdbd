package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	JTI       string `json:"jti"`
	jwt.RegisteredClaims
}

// TokenPair is what login and registration hand back to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager mints and verifies HS256-signed access/refresh tokens. Signing is
// stateless: nothing is persisted server-side.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(secret string, accessTTL time.Duration, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (m *Manager) sign(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		JTI:       uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

func (m *Manager) GenerateAccessToken(userID, email string) (string, error) {
	return m.sign(userID, email, "access", m.accessTTL)
}

func (m *Manager) GenerateRefreshToken(userID, email string) (string, error) {
	return m.sign(userID, email, "refresh", m.refreshTTL)
}

// IssuePair mints the access/refresh token pair bound to one user identity.
func (m *Manager) IssuePair(userID, email string) (TokenPair, error) {
	access, err := m.GenerateAccessToken(userID, email)

	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.GenerateRefreshToken(userID, email)

	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *Manager) ParseAndValidate(tokenStr string) (claims *Claims, err error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return
	}
	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		err = errors.New("invalid token")
		return
	}
	return
}

func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := m.ParseAndValidate(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

func (m *Manager) VerifyRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := m.ParseAndValidate(tokenStr)

	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}

// RefreshAccess validates a refresh token and mints a new short-lived access
// token for the same identity. Malformed, expired and mis-signed tokens all
// fail the same way.
func (m *Manager) RefreshAccess(refreshToken string) (string, error) {
	claims, err := m.VerifyRefreshToken(refreshToken)

	if err != nil {
		return "", err
	}

	return m.GenerateAccessToken(claims.UserID, claims.Email)
}
