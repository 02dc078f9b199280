package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
)

// user is the caller as identified by the Auth middleware.
type user struct {
	ID   uuid.UUID
	Role models.UserRole
}

// currentUser reads what middleware.Auth stored in the request locals.
func currentUser(c *fiber.Ctx) (user, error) {
	idStr, _ := c.Locals("userID").(string)
	role, _ := c.Locals("userRole").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return user{}, err
	}
	return user{ID: id, Role: models.UserRole(role)}, nil
}

// roundID parses the :id route parameter.
func roundID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// storeError maps a repository error to a status and message. Anything unexpected is
// logged and reported as a 500 without details.
func storeError(c *fiber.Ctx, logger *slog.Logger, op string, err error) error {
	status, msg := fiber.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, repository.ErrRoundNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, repository.ErrPlayerNotInRound):
		status, msg = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, repository.ErrInvalidHole),
		errors.Is(err, repository.ErrInvalidScore),
		errors.Is(err, repository.ErrInvalidDecision):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrHoleStarted):
		status, msg = fiber.StatusConflict, err.Error()
	default:
		logger.Error(op+" failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
