package handlers

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
)

type fakeEvents struct {
	events  []repository.EventSummary
	listErr error

	lastAll  bool
	lastType models.EventType
	created  []models.Event
}

func (f *fakeEvents) List(_ context.Context, _ uuid.UUID, all bool, t models.EventType) ([]repository.EventSummary, error) {
	f.lastAll, f.lastType = all, t
	return f.events, f.listErr
}

func (f *fakeEvents) Create(_ context.Context, ev models.Event) (repository.EventSummary, error) {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	ev.Creator = models.User{DisplayName: "Organizer"}
	f.created = append(f.created, ev)
	return repository.EventSummary{Event: ev, MemberCount: 1}, nil
}

func eventsApp(store EventStore, role models.UserRole) *fiber.App {
	app := fiber.New()
	userID := uuid.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID.String())
		c.Locals("userRole", string(role))
		return c.Next()
	})
	logger := slog.New(slog.DiscardHandler)
	app.Get("/events", GetEvents(store, logger))
	app.Post("/events", CreateEvent(store, logger))
	return app
}

func eventFixture(f *gofakeit.Faker) repository.EventSummary {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return repository.EventSummary{
		Event: models.Event{
			ID:        uuid.New(),
			Name:      f.Company() + " Open",
			EventType: models.EventTypeTournament,
			Status:    models.EventStatusUpcoming,
			StartDate: &start,
			Creator:   models.User{DisplayName: f.Name()},
			CreatedAt: start.Add(-72 * time.Hour),
		},
		MemberCount: int64(f.IntRange(1, 40)),
	}
}

func TestGetEvents(t *testing.T) {
	faker := gofakeit.New(7)
	want := []repository.EventSummary{eventFixture(faker), eventFixture(faker)}
	store := &fakeEvents{events: want}

	f := &fixture{app: eventsApp(store, models.UserRoleUser)}
	resp, body := f.do(t, "GET", "/events?type=Tournament", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	got := decode[[]EventResponse](t, body)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Event.Name, got[0].Name)
	assert.Equal(t, want[0].Event.Creator.DisplayName, got[0].CreatorName)
	assert.Equal(t, want[0].MemberCount, got[0].MemberCount)
	assert.Equal(t, "2026-06-01", *got[0].StartDate)
	assert.Nil(t, got[0].EndDate)

	assert.False(t, store.lastAll)
	assert.Equal(t, models.EventTypeTournament, store.lastType)
}

func TestGetEventsAdminSeesAll(t *testing.T) {
	store := &fakeEvents{}
	f := &fixture{app: eventsApp(store, models.UserRoleAdmin)}

	resp, body := f.do(t, "GET", "/events", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
	assert.True(t, store.lastAll)
}

func TestGetEventsErrors(t *testing.T) {
	f := &fixture{app: eventsApp(&fakeEvents{}, models.UserRoleUser)}
	resp, _ := f.do(t, "GET", "/events?type=skins", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	f = &fixture{app: eventsApp(&fakeEvents{listErr: errors.New("boom")}, models.UserRoleUser)}
	resp, body := f.do(t, "GET", "/events", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "failed to fetch events")
}

func TestCreateEvent(t *testing.T) {
	store := &fakeEvents{}
	f := &fixture{app: eventsApp(store, models.UserRoleManager)}

	start, end := "2026-07-01", "2026-07-03"
	resp, body := f.do(t, "POST", "/events", CreateEventRequest{
		Name:      "  Club Championship ",
		EventType: "tournament",
		StartDate: &start,
		EndDate:   &end,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	got := decode[EventResponse](t, body)
	assert.Equal(t, "Club Championship", got.Name)
	assert.Equal(t, "upcoming", got.Status)
	assert.Equal(t, int64(1), got.MemberCount)
	assert.Equal(t, "2026-04-01T12:00:00Z", got.CreatedAt)

	require.Len(t, store.created, 1)
	assert.Equal(t, models.EventTypeTournament, store.created[0].EventType)
}

func TestCreateEventValidation(t *testing.T) {
	bad, early, late := "07/01/2026", "2026-07-01", "2026-06-01"

	tests := []struct {
		name    string
		req     CreateEventRequest
		message string
	}{
		{name: "missing name", req: CreateEventRequest{EventType: "casual"}, message: "name is required"},
		{name: "unknown type", req: CreateEventRequest{Name: "x", EventType: "skins"}, message: "event_type"},
		{name: "bad start", req: CreateEventRequest{Name: "x", EventType: "league", StartDate: &bad}, message: "start_date"},
		{name: "end before start", req: CreateEventRequest{Name: "x", EventType: "league", StartDate: &early, EndDate: &late}, message: "before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEvents{}
			f := &fixture{app: eventsApp(store, models.UserRoleAdmin)}
			resp, body := f.do(t, "POST", "/events", tt.req)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(body), tt.message)
			assert.Empty(t, store.created)
		})
	}
}
