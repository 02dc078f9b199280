package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/trentd187/golf-scoring/internal/models"
)

// Users keeps the users table in step with the identity provider.
type Users struct {
	db *gorm.DB
}

// NewUsers builds the user store.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Identity is what a verified token says about its holder.
type Identity struct {
	ClerkID string
	Name    string
	Email   string
	Role    models.UserRole
	// RoleClaimed is false when the token carried no role; the stored role is then kept.
	RoleClaimed bool
}

// Sync finds the user for a Clerk ID, creating the row on first sight and updating the
// role when the token claims a different one.
func (s *Users) Sync(ctx context.Context, id Identity) (models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("clerk_id = ?", id.ClerkID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		clerkID := id.ClerkID
		user = models.User{
			ClerkID:     &clerkID,
			DisplayName: id.Name,
			Email:       id.Email,
			Role:        id.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	case err != nil:
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	if id.RoleClaimed && user.Role != id.Role {
		if err := db.Model(&user).Update("role", id.Role).Error; err != nil {
			return models.User{}, fmt.Errorf("update role: %w", err)
		}
		user.Role = id.Role
	}
	return user, nil
}
