// Package middleware contains the HTTP middleware of the golf scoring API: bearer token
// authentication with lazy user sync, and role checks.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/trentd187/golf-scoring/internal/config"
	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
)

// Claims is the payload expected in a Clerk session token. Besides the registered claims
// (Subject is the Clerk user ID) the Clerk JWT template adds:
//
//	"role":  "{{user.public_metadata.role}}"
//	"email": "{{user.primary_email_address}}"
//	"name":  "{{user.full_name}}"
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserSyncer finds or creates the local user for a token (repository.Users).
type UserSyncer interface {
	Sync(ctx context.Context, id repository.Identity) (models.User, error)
}

// Auth validates the "Authorization: Bearer <token>" header, syncs the user row and stores
// "userID" (our UUID as a string) and "userRole" in c.Locals for the handlers.
//
// With cfg.JWTSecret set, tokens must be HS256-signed with that key and unexpired. Without
// it the signature is not checked, which is only acceptable in development; the server
// refuses to start that way in production.
func Auth(cfg *config.Config, users UserSyncer, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		claims, err := parseClaims(cfg.JWTSecret, tokenStr)
		if err != nil {
			logger.Debug("rejected token", slog.Any("error", err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		if claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token missing subject"})
		}

		// Placeholders keep first sign-in working before the JWT template is configured.
		email := claims.Email
		if email == "" {
			email = fmt.Sprintf("%s@clerk.local", claims.Subject)
		}
		name := claims.Name
		if name == "" {
			name = "Golfer"
		}

		user, err := users.Sync(c.UserContext(), repository.Identity{
			ClerkID:     claims.Subject,
			Name:        name,
			Email:       email,
			Role:        roleFromClaim(claims.Role),
			RoleClaimed: claims.Role != "",
		})
		if err != nil {
			logger.Error("user sync failed", slog.String("clerk_id", claims.Subject), slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}

		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))
		return c.Next()
	}
}

func parseClaims(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// roleFromClaim maps the role claim to a UserRole; anything unknown is a plain user.
func roleFromClaim(s string) models.UserRole {
	switch models.UserRole(s) {
	case models.UserRoleAdmin, models.UserRoleManager, models.UserRoleScorer:
		return models.UserRole(s)
	}
	return models.UserRoleUser
}
