package handlers

// rounds.go serves the scoring endpoints of a round: the computed leaderboard, one
// participant's annotated scorecard, hole score entry and Wolf decisions.
//
// Nothing computed is stored. Each request loads a fresh snapshot of the round and runs it
// through the scoring engine; after a score is saved the new leaderboard is also pushed to
// everyone watching the round live.

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/repository"
	"github.com/trentd187/golf-scoring/internal/scoring"
)

// RoundStore is the part of repository.Rounds the handlers use.
type RoundStore interface {
	LoadGame(ctx context.Context, roundID uuid.UUID) (scoring.Game, error)
	SaveScore(ctx context.Context, roundID uuid.UUID, in repository.ScoreInput) error
	SaveWolfAssignment(ctx context.Context, roundID uuid.UUID, in repository.WolfInput) error
	CanScore(ctx context.Context, roundID, userID uuid.UUID, role models.UserRole) (bool, error)
}

// Broadcaster fans an encoded leaderboard out to live viewers of a round.
type Broadcaster interface {
	BroadcastToRound(roundID string, data []byte)
}

// EntryCounter counts accepted entries (metrics.Recorder).
type EntryCounter interface {
	ScoreRecorded()
	WolfRecorded()
}

// RoundDeps bundles what the round handlers need.
type RoundDeps struct {
	Store   RoundStore
	Engine  *scoring.Engine
	Live    Broadcaster
	Metrics EntryCounter
	Logger  *slog.Logger
}

// LeaderboardResponse is the leaderboard payload, both over HTTP and on the live feed.
type LeaderboardResponse struct {
	Type    string                   `json:"type"` // always "leaderboard"
	RoundID string                   `json:"round_id"`
	Format  scoring.FormatCode       `json:"format"`
	Rows    []scoring.LeaderboardRow `json:"rows"`
}

// ScorecardResponse is one participant's per-hole detail.
type ScorecardResponse struct {
	RoundID       string               `json:"round_id"`
	Format        scoring.FormatCode   `json:"format"`
	ParticipantID string               `json:"participant_id"`
	Holes         []scoring.HoleDetail `json:"holes"`
}

// ScoreRequest is the body of PUT /api/v1/rounds/:id/scores. Omitting gross (or sending
// null) clears the hole.
type ScoreRequest struct {
	RoundPlayerID string `json:"round_player_id"`
	Hole          int    `json:"hole"`
	Gross         *int   `json:"gross"`
	FIR           *bool  `json:"fir"`
	GIR           *bool  `json:"gir"`
	Putts         *int   `json:"putts"`
}

// WolfRequest is the body of PUT /api/v1/rounds/:id/wolf/:hole. WolfID may be omitted to
// keep the default rotation. Decision is "partner:<round player id>", "lone", "blind" or
// "none".
type WolfRequest struct {
	WolfID   *string              `json:"wolf_id"`
	Decision scoring.WolfDecision `json:"decision"`
}

func (d RoundDeps) leaderboard(g scoring.Game, override string) LeaderboardResponse {
	return LeaderboardResponse{
		Type:    "leaderboard",
		RoundID: g.ID,
		Format:  d.Engine.ResolveFormat(g, override),
		Rows:    d.Engine.ComputeLeaderboard(g, override),
	}
}

// LiveSnapshot encodes the current leaderboard of a round for a viewer that just connected.
func LiveSnapshot(d RoundDeps) func(ctx context.Context, roundID string) ([]byte, error) {
	return func(ctx context.Context, raw string) ([]byte, error) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, repository.ErrRoundNotFound
		}
		g, err := d.Store.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(d.leaderboard(g, ""))
	}
}

// GetLeaderboard handles GET /api/v1/rounds/:id/leaderboard[?format=...].
// format overrides the round's stored format for this request only.
func GetLeaderboard(d RoundDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := roundID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid round ID"})
		}
		g, err := d.Store.LoadGame(c.UserContext(), id)
		if err != nil {
			return storeError(c, d.Logger, "load round", err)
		}
		return c.JSON(d.leaderboard(g, c.Query("format")))
	}
}

// GetScorecard handles GET /api/v1/rounds/:id/scorecard/:participantID[?format=...].
// The participant may be a player, a team, or a member of a team.
func GetScorecard(d RoundDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := roundID(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid round ID"})
		}
		g, err := d.Store.LoadGame(c.UserContext(), id)
		if err != nil {
			return storeError(c, d.Logger, "load round", err)
		}

		participant := c.Params("participantID")
		override := c.Query("format")
		holes, ok := d.Engine.Scorecard(g, override, participant)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "participant not found in round"})
		}
		return c.JSON(ScorecardResponse{
			RoundID:       g.ID,
			Format:        d.Engine.ResolveFormat(g, override),
			ParticipantID: participant,
			Holes:         holes,
		})
	}
}

// PutScore handles PUT /api/v1/rounds/:id/scores. Admins, scorers, event organizers and the
// round's own players may enter scores. The response and the live feed both carry the
// recomputed leaderboard.
func PutScore(d RoundDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, u, ok, err := authorizeScoring(c, d)
		if !ok {
			return err
		}

		var req ScoreRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		playerID, err := uuid.Parse(req.RoundPlayerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "round_player_id must be a UUID"})
		}

		err = d.Store.SaveScore(c.UserContext(), id, repository.ScoreInput{
			RoundPlayerID: playerID,
			HoleNumber:    req.Hole,
			Gross:         req.Gross,
			FairwayHit:    req.FIR,
			GreenHit:      req.GIR,
			Putts:         req.Putts,
			EnteredBy:     u.ID,
		})
		if err != nil {
			return storeError(c, d.Logger, "save score", err)
		}
		d.Metrics.ScoreRecorded()
		d.Logger.Info("score recorded",
			slog.String("round_id", id.String()),
			slog.String("round_player_id", playerID.String()),
			slog.Int("hole", req.Hole),
			slog.String("entered_by", u.ID.String()),
		)

		g, err := d.Store.LoadGame(c.UserContext(), id)
		if err != nil {
			return storeError(c, d.Logger, "reload round", err)
		}
		board := d.leaderboard(g, "")
		if data, err := json.Marshal(board); err == nil {
			d.Live.BroadcastToRound(id.String(), data)
		} else {
			d.Logger.Error("encode live leaderboard failed", slog.Any("error", err))
		}
		return c.JSON(board)
	}
}

// PutWolf handles PUT /api/v1/rounds/:id/wolf/:hole. The call is refused with 409 once
// anyone has a gross score on the hole.
func PutWolf(d RoundDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, u, ok, err := authorizeScoring(c, d)
		if !ok {
			return err
		}

		hole, err := c.ParamsInt("hole")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hole must be a number"})
		}

		var req WolfRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		in := repository.WolfInput{HoleNumber: hole, Decision: req.Decision, DecidedBy: u.ID}
		if req.WolfID != nil && *req.WolfID != "" {
			wolfID, err := uuid.Parse(*req.WolfID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wolf_id must be a UUID"})
			}
			in.WolfID = &wolfID
		}

		if err := d.Store.SaveWolfAssignment(c.UserContext(), id, in); err != nil {
			return storeError(c, d.Logger, "save wolf decision", err)
		}
		d.Metrics.WolfRecorded()

		resp := fiber.Map{"hole": hole, "decision": req.Decision.String(), "wolf_id": nil}
		if in.WolfID != nil {
			resp["wolf_id"] = in.WolfID.String()
		}
		return c.JSON(resp)
	}
}

// authorizeScoring parses the round and checks the caller may enter data for it. ok is
// false when the request has already been answered; err is then the response error.
func authorizeScoring(c *fiber.Ctx, d RoundDeps) (id uuid.UUID, u user, ok bool, err error) {
	u, err = currentUser(c)
	if err != nil {
		return id, u, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid user ID"})
	}
	id, err = roundID(c)
	if err != nil {
		return id, u, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid round ID"})
	}

	allowed, err := d.Store.CanScore(c.UserContext(), id, u.ID, u.Role)
	if err != nil {
		return id, u, false, storeError(c, d.Logger, "check scoring permission", err)
	}
	if !allowed {
		return id, u, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not allowed to score this round"})
	}
	return id, u, true, nil
}
