package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
	"github.com/trentd187/golf-scoring/internal/scoring"
)

// fakeRounds keeps games in memory and applies saved scores to them.
type fakeRounds struct {
	mu       sync.Mutex
	games    map[uuid.UUID]scoring.Game
	scores   []repository.ScoreInput
	wolf     []repository.WolfInput
	canScore bool
	saveErr  error
}

func (f *fakeRounds) LoadGame(_ context.Context, id uuid.UUID) (scoring.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[id]
	if !ok {
		return scoring.Game{}, repository.ErrRoundNotFound
	}
	return g, nil
}

func (f *fakeRounds) SaveScore(_ context.Context, id uuid.UUID, in repository.ScoreInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	g := f.games[id]
	for i, p := range g.Players {
		if p.ID == in.RoundPlayerID.String() {
			g.Players[i].Scores[in.HoleNumber] = scoring.Score{Gross: in.Gross, FIR: in.FairwayHit, GIR: in.GreenHit, Putts: in.Putts}
			f.scores = append(f.scores, in)
			return nil
		}
	}
	return repository.ErrPlayerNotInRound
}

func (f *fakeRounds) SaveWolfAssignment(_ context.Context, _ uuid.UUID, in repository.WolfInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.wolf = append(f.wolf, in)
	return nil
}

func (f *fakeRounds) CanScore(context.Context, uuid.UUID, uuid.UUID, models.UserRole) (bool, error) {
	return f.canScore, nil
}

type fakeLive struct {
	mu   sync.Mutex
	sent map[string][][]byte
}

func (l *fakeLive) BroadcastToRound(roundID string, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sent == nil {
		l.sent = map[string][][]byte{}
	}
	l.sent[roundID] = append(l.sent[roundID], data)
}

type fakeCounter struct{ scores, wolf int }

func (c *fakeCounter) ScoreRecorded() { c.scores++ }
func (c *fakeCounter) WolfRecorded()  { c.wolf++ }

type fixture struct {
	app     *fiber.App
	store   *fakeRounds
	live    *fakeLive
	counter *fakeCounter
	roundID uuid.UUID
	players []uuid.UUID
}

func player(id uuid.UUID, name string, gross ...int) scoring.Player {
	p := scoring.Player{ID: id.String(), DisplayName: name, Handicap: decimal.Zero, Scores: map[int]scoring.Score{}}
	for i, g := range gross {
		p.Scores[i+1] = scoring.Score{Gross: &g}
	}
	return p
}

func newFixture(t *testing.T, format string) *fixture {
	t.Helper()
	f := &fixture{
		roundID: uuid.New(),
		players: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		live:    &fakeLive{},
		counter: &fakeCounter{},
	}

	course := scoring.Course{Name: "Test Nine"}
	for n := 1; n <= 9; n++ {
		course.Holes = append(course.Holes, scoring.Hole{Number: n, Par: 4, StrokeIndex: n})
	}
	g := scoring.Game{
		ID:        f.roundID.String(),
		Format:    format,
		Course:    course,
		HoleCount: 9,
		Players: []scoring.Player{
			player(f.players[0], "Alice", 3),
			player(f.players[1], "Bob", 4),
			player(f.players[2], "Cara", 5),
		},
	}
	f.store = &fakeRounds{games: map[uuid.UUID]scoring.Game{f.roundID: g}, canScore: true}

	d := RoundDeps{
		Store:   f.store,
		Engine:  scoring.NewEngine(),
		Live:    f.live,
		Metrics: f.counter,
		Logger:  slog.New(slog.DiscardHandler),
	}

	userID := uuid.New()
	f.app = fiber.New()
	f.app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID.String())
		c.Locals("userRole", string(models.UserRoleUser))
		return c.Next()
	})
	f.app.Get("/rounds/:id/leaderboard", GetLeaderboard(d))
	f.app.Get("/rounds/:id/scorecard/:participantID", GetScorecard(d))
	f.app.Put("/rounds/:id/scores", PutScore(d))
	f.app.Put("/rounds/:id/wolf/:hole", PutWolf(d))
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func rowIDs(rows []scoring.LeaderboardRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ParticipantID
	}
	return out
}

func TestGetLeaderboard(t *testing.T) {
	f := newFixture(t, "Stableford")

	resp, body := f.do(t, "GET", "/rounds/"+f.roundID.String()+"/leaderboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	board := decode[LeaderboardResponse](t, body)
	assert.Equal(t, "leaderboard", board.Type)
	assert.Equal(t, scoring.FormatStableford, board.Format)
	require.Len(t, board.Rows, 3)
	assert.Equal(t, []string{f.players[0].String(), f.players[1].String(), f.players[2].String()}, rowIDs(board.Rows))
	assert.Equal(t, 3, board.Rows[0].Points)
	assert.Equal(t, "1", board.Rows[0].Position)
}

func TestGetLeaderboardFormatOverride(t *testing.T) {
	f := newFixture(t, "Stableford")

	_, body := f.do(t, "GET", "/rounds/"+f.roundID.String()+"/leaderboard?format=match+play", nil)
	board := decode[LeaderboardResponse](t, body)

	assert.Equal(t, scoring.FormatMatchPlayHandicap1v1, board.Format)
	require.Len(t, board.Rows, 1)
	assert.True(t, board.Rows[0].Waiting)
	assert.Equal(t, "Invalid format for 3 participants", board.Rows[0].Status)
}

func TestGetLeaderboardErrors(t *testing.T) {
	f := newFixture(t, "stableford")

	resp, _ := f.do(t, "GET", "/rounds/not-a-uuid/leaderboard", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := f.do(t, "GET", "/rounds/"+uuid.NewString()+"/leaderboard", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "round not found")
}

func TestGetScorecard(t *testing.T) {
	f := newFixture(t, "american")

	resp, body := f.do(t, "GET", "/rounds/"+f.roundID.String()+"/scorecard/"+f.players[0].String(), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	card := decode[ScorecardResponse](t, body)
	assert.Equal(t, scoring.FormatAmericanGross, card.Format)
	require.Len(t, card.Holes, 9)
	assert.Equal(t, 4, card.Holes[0].Points)
	assert.Equal(t, scoring.OutcomeWon, card.Holes[0].Outcome)

	resp, _ = f.do(t, "GET", "/rounds/"+f.roundID.String()+"/scorecard/nobody", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPutScoreRecomputesAndBroadcasts(t *testing.T) {
	f := newFixture(t, "stableford")
	gross, putts := 2, 1

	resp, body := f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/scores", ScoreRequest{
		RoundPlayerID: f.players[2].String(),
		Hole:          2,
		Gross:         &gross,
		Putts:         &putts,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	board := decode[LeaderboardResponse](t, body)
	assert.Equal(t, f.players[2].String(), board.Rows[0].ParticipantID, "eagle moves Cara to the top")
	assert.Equal(t, 5, board.Rows[0].Points)
	assert.Equal(t, 1, board.Rows[0].Putts)

	require.Len(t, f.store.scores, 1)
	assert.Equal(t, 2, f.store.scores[0].HoleNumber)
	assert.Equal(t, 1, f.counter.scores)

	sent := f.live.sent[f.roundID.String()]
	require.Len(t, sent, 1)
	pushed := decode[LeaderboardResponse](t, sent[0])
	assert.Equal(t, board.Rows, pushed.Rows)
}

func TestPutScoreRejections(t *testing.T) {
	gross := 4
	valid := func(f *fixture) ScoreRequest {
		return ScoreRequest{RoundPlayerID: f.players[0].String(), Hole: 3, Gross: &gross}
	}

	tests := []struct {
		name    string
		setup   func(f *fixture)
		body    func(f *fixture) any
		want    int
		message string
	}{
		{
			name:    "not allowed",
			setup:   func(f *fixture) { f.store.canScore = false },
			body:    func(f *fixture) any { return valid(f) },
			want:    fiber.StatusForbidden,
			message: "not allowed",
		},
		{
			name:    "bad player id",
			body:    func(*fixture) any { return ScoreRequest{RoundPlayerID: "x", Hole: 3} },
			want:    fiber.StatusBadRequest,
			message: "round_player_id",
		},
		{
			name:    "player from another round",
			body:    func(*fixture) any { return ScoreRequest{RoundPlayerID: uuid.NewString(), Hole: 3, Gross: &gross} },
			want:    fiber.StatusUnprocessableEntity,
			message: "not in this round",
		},
		{
			name:    "invalid hole",
			setup:   func(f *fixture) { f.store.saveErr = repository.ErrInvalidHole },
			body:    func(f *fixture) any { return valid(f) },
			want:    fiber.StatusBadRequest,
			message: "hole number",
		},
		{
			name:    "database failure",
			setup:   func(f *fixture) { f.store.saveErr = errors.New("connection reset") },
			body:    func(f *fixture) any { return valid(f) },
			want:    fiber.StatusInternalServerError,
			message: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "stableford")
			if tt.setup != nil {
				tt.setup(f)
			}
			resp, body := f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/scores", tt.body(f))
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Contains(t, string(body), tt.message)
			assert.Empty(t, f.live.sent)
			assert.Zero(t, f.counter.scores)
		})
	}
}

func TestPutWolf(t *testing.T) {
	f := newFixture(t, "wolf")
	wolfID := f.players[1].String()

	resp, body := f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/wolf/2", map[string]any{
		"wolf_id":  wolfID,
		"decision": "partner:" + f.players[2].String(),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	require.Len(t, f.store.wolf, 1)
	got := f.store.wolf[0]
	assert.Equal(t, 2, got.HoleNumber)
	assert.Equal(t, wolfID, got.WolfID.String())
	assert.Equal(t, scoring.PartnerWith(f.players[2].String()), got.Decision)
	assert.Equal(t, 1, f.counter.wolf)

	reply := decode[map[string]any](t, body)
	assert.Equal(t, "partner:"+f.players[2].String(), reply["decision"])
}

func TestPutWolfDefaultRotationAndLock(t *testing.T) {
	f := newFixture(t, "wolf")

	resp, _ := f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/wolf/4", map[string]any{"decision": "blind"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, f.store.wolf[0].WolfID)
	assert.Equal(t, scoring.BlindWolf(), f.store.wolf[0].Decision)

	f.store.saveErr = repository.ErrHoleStarted
	resp, _ = f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/wolf/1", map[string]any{"decision": "lone"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, "PUT", "/rounds/"+f.roundID.String()+"/wolf/first", map[string]any{"decision": "lone"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLiveSnapshot(t *testing.T) {
	f := newFixture(t, "stroke play")
	snapshot := LiveSnapshot(RoundDeps{Store: f.store, Engine: scoring.NewEngine()})

	data, err := snapshot(context.Background(), f.roundID.String())
	require.NoError(t, err)
	board := decode[LeaderboardResponse](t, data)
	assert.Equal(t, scoring.FormatStrokePlay, board.Format)
	assert.Equal(t, "-1", board.Rows[0].Status)

	_, err = snapshot(context.Background(), "garbage")
	assert.ErrorIs(t, err, repository.ErrRoundNotFound)
}
