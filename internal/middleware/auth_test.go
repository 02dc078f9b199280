package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scoring/internal/config"
	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
)

const testSecret = "test-signing-key"

type fakeSyncer struct {
	err  error
	seen []repository.Identity
}

func (f *fakeSyncer) Sync(_ context.Context, id repository.Identity) (models.User, error) {
	f.seen = append(f.seen, id)
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(id.ClerkID)), Role: id.Role}, nil
}

func sign(t *testing.T, key string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func validClaims(sub, role string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:  role,
		Email: sub + "@example.com",
		Name:  "Pat Golfer",
	}
}

type whoami struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func authApp(secret string, users UserSyncer) *fiber.App {
	app := fiber.New()
	cfg := &config.Config{JWTSecret: secret}
	app.Use(Auth(cfg, users, slog.New(slog.DiscardHandler)))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(whoami{
			UserID: c.Locals("userID").(string),
			Role:   c.Locals("userRole").(string),
		})
	})
	return app
}

func get(t *testing.T, app *fiber.App, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestAuthVerifiedToken(t *testing.T) {
	users := &fakeSyncer{}
	app := authApp(testSecret, users)

	status, body := get(t, app, sign(t, testSecret, validClaims("user_123", "scorer")))
	require.Equal(t, fiber.StatusOK, status, string(body))

	var got whoami
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte("user_123")).String(), got.UserID)
	assert.Equal(t, "scorer", got.Role)

	require.Len(t, users.seen, 1)
	assert.Equal(t, repository.Identity{
		ClerkID:     "user_123",
		Name:        "Pat Golfer",
		Email:       "user_123@example.com",
		Role:        models.UserRoleScorer,
		RoleClaimed: true,
	}, users.seen[0])
}

func TestAuthRejects(t *testing.T) {
	expired := validClaims("user_1", "")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := validClaims("user_1", "")
	noExpiry.ExpiresAt = nil
	noSubject := validClaims("", "")

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "missing header", token: func(*testing.T) string { return "" }},
		{name: "garbage", token: func(*testing.T) string { return "not-a-jwt" }},
		{name: "wrong key", token: func(t *testing.T) string { return sign(t, "other-key", validClaims("user_1", "")) }},
		{name: "expired", token: func(t *testing.T) string { return sign(t, testSecret, expired) }},
		{name: "no expiry", token: func(t *testing.T) string { return sign(t, testSecret, noExpiry) }},
		{name: "no subject", token: func(t *testing.T) string { return sign(t, testSecret, noSubject) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeSyncer{}
			status, _ := get(t, authApp(testSecret, users), tt.token(t))
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Empty(t, users.seen)
		})
	}
}

func TestAuthUnverifiedInDevelopment(t *testing.T) {
	users := &fakeSyncer{}
	claims := validClaims("user_dev", "")
	claims.Email, claims.Name = "", ""

	status, body := get(t, authApp("", users), sign(t, "whatever", claims))
	require.Equal(t, fiber.StatusOK, status, string(body))

	require.Len(t, users.seen, 1)
	assert.Equal(t, "user_dev@clerk.local", users.seen[0].Email)
	assert.Equal(t, "Golfer", users.seen[0].Name)
	assert.Equal(t, models.UserRoleUser, users.seen[0].Role)
	assert.False(t, users.seen[0].RoleClaimed)
}

func TestAuthSyncFailure(t *testing.T) {
	users := &fakeSyncer{err: errors.New("connection reset")}
	status, body := get(t, authApp(testSecret, users), sign(t, testSecret, validClaims("user_1", "")))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, string(body), "database error")
}

func TestRoleFromClaim(t *testing.T) {
	for claim, want := range map[string]models.UserRole{
		"admin":     models.UserRoleAdmin,
		"manager":   models.UserRoleManager,
		"scorer":    models.UserRoleScorer,
		"user":      models.UserRoleUser,
		"":          models.UserRoleUser,
		"superuser": models.UserRoleUser,
	} {
		assert.Equal(t, want, roleFromClaim(claim), "claim %q", claim)
	}
}
