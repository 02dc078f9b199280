package handlers

// events.go handles /api/v1/events: listing the events a user belongs to and creating new
// ones. Events are the containers rounds are scheduled in (a league season, a tournament,
// a casual day out).
//
// Access has two layers. Route level: only admins and managers may POST (enforced by
// middleware.RequireRole). Resource level: admins see every event, everyone else only the
// events they are a member of.

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
)

// EventStore is the part of repository.Events the handlers use.
type EventStore interface {
	List(ctx context.Context, userID uuid.UUID, all bool, eventType models.EventType) ([]repository.EventSummary, error)
	Create(ctx context.Context, ev models.Event) (repository.EventSummary, error)
}

// EventResponse is the JSON shape of an event.
type EventResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	EventType   string  `json:"event_type"`
	Status      string  `json:"status"`
	StartDate   *string `json:"start_date"` // YYYY-MM-DD or null
	EndDate     *string `json:"end_date"`
	CreatorName string  `json:"creator_name"`
	MemberCount int64   `json:"member_count"`
	CreatedAt   string  `json:"created_at"` // RFC 3339
}

// CreateEventRequest is the body of POST /api/v1/events.
type CreateEventRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	EventType   string  `json:"event_type"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

const dateLayout = "2006-01-02"

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

// parseOptionalDate treats nil and "" as no date.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func validEventType(t models.EventType) bool {
	switch t {
	case models.EventTypeLeague, models.EventTypeTournament, models.EventTypeCasual:
		return true
	}
	return false
}

func eventResponse(s repository.EventSummary) EventResponse {
	e := s.Event
	return EventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		EventType:   string(e.EventType),
		Status:      string(e.Status),
		StartDate:   formatOptionalDate(e.StartDate),
		EndDate:     formatOptionalDate(e.EndDate),
		CreatorName: e.Creator.DisplayName,
		MemberCount: s.MemberCount,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// GetEvents handles GET /api/v1/events[?type=league|tournament|casual].
func GetEvents(store EventStore, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}

		eventType := models.EventType(strings.ToLower(c.Query("type")))
		if eventType != "" && !validEventType(eventType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "type must be 'league', 'tournament', or 'casual'",
			})
		}

		events, err := store.List(c.UserContext(), user.ID, user.Role == models.UserRoleAdmin, eventType)
		if err != nil {
			logger.Error("list events failed", slog.String("user_id", user.ID.String()), slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch events"})
		}

		response := make([]EventResponse, 0, len(events))
		for _, e := range events {
			response = append(response, eventResponse(e))
		}
		return c.JSON(response)
	}
}

// CreateEvent handles POST /api/v1/events. The creator becomes the event's first organizer.
func CreateEvent(store EventStore, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := currentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
		}

		var req CreateEventRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}
		eventType := models.EventType(req.EventType)
		if !validEventType(eventType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "event_type must be 'league', 'tournament', or 'casual'",
			})
		}

		startDate, err := parseOptionalDate(req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be in YYYY-MM-DD format"})
		}
		endDate, err := parseOptionalDate(req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be in YYYY-MM-DD format"})
		}
		if startDate != nil && endDate != nil && endDate.Before(*startDate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date is before start_date"})
		}

		created, err := store.Create(c.UserContext(), models.Event{
			Name:        req.Name,
			Description: req.Description,
			EventType:   eventType,
			Status:      models.EventStatusUpcoming,
			StartDate:   startDate,
			EndDate:     endDate,
			CreatedBy:   user.ID,
		})
		if err != nil {
			logger.Error("create event failed", slog.String("user_id", user.ID.String()), slog.Any("error", err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create event"})
		}

		return c.Status(fiber.StatusCreated).JSON(eventResponse(created))
	}
}
