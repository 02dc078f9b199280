package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scoring/internal/models"
)

// Events stores events and their memberships.
type Events struct {
	db *gorm.DB
}

// NewEvents builds the event store.
func NewEvents(db *gorm.DB) *Events {
	return &Events{db: db}
}

// EventSummary is an event with its creator loaded and its member count.
type EventSummary struct {
	Event       models.Event
	MemberCount int64
}

// List returns the events a user can see: every event for admins, otherwise the ones the
// user is a member of. An empty eventType lists every type.
func (s *Events) List(ctx context.Context, userID uuid.UUID, all bool, eventType models.EventType) ([]EventSummary, error) {
	q := s.db.WithContext(ctx).Preload("Creator").Order("events.created_at DESC")
	if eventType != "" {
		q = q.Where("events.event_type = ?", eventType)
	}
	if !all {
		q = q.Joins("JOIN event_players ON event_players.event_id = events.id").
			Where("event_players.user_id = ?", userID)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		return []EventSummary{}, nil
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	// One grouped count instead of a query per event.
	var counts []struct {
		EventID uuid.UUID
		N       int64
	}
	if err := s.db.WithContext(ctx).Model(&models.EventPlayer{}).
		Select("event_id, count(*) AS n").
		Where("event_id IN ?", ids).
		Group("event_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count event members: %w", err)
	}
	byEvent := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byEvent[c.EventID] = c.N
	}

	out := make([]EventSummary, len(events))
	for i, e := range events {
		out[i] = EventSummary{Event: e, MemberCount: byEvent[e.ID]}
	}
	return out, nil
}

// Create inserts the event and makes its creator the first organizer, in one transaction
// so a failed membership insert doesn't leave an event nobody can manage.
func (s *Events) Create(ctx context.Context, ev models.Event) (EventSummary, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator").Create(&ev).Error; err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		organizer := models.EventPlayer{
			EventID: ev.ID,
			UserID:  ev.CreatedBy,
			Role:    models.EventPlayerRoleOrganizer,
			Status:  models.EventPlayerStatusRegistered,
		}
		if err := tx.Create(&organizer).Error; err != nil {
			return fmt.Errorf("add organizer: %w", err)
		}
		return tx.First(&ev.Creator, "id = ?", ev.CreatedBy).Error
	})
	if err != nil {
		return EventSummary{}, err
	}
	return EventSummary{Event: ev, MemberCount: 1}, nil
}
