package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/scoring"
)

// Rounds reads round snapshots and records hole-level input.
type Rounds struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRounds builds the round store.
func NewRounds(db *gorm.DB, logger *slog.Logger) *Rounds {
	return &Rounds{db: db, logger: logger}
}

// ScoreInput is one hole's entry for one round player. A nil Gross clears the hole.
type ScoreInput struct {
	RoundPlayerID uuid.UUID
	HoleNumber    int
	Gross         *int
	FairwayHit    *bool
	GreenHit      *bool
	Putts         *int
	EnteredBy     uuid.UUID
}

func (in ScoreInput) validate() error {
	if in.HoleNumber < 1 || in.HoleNumber > 18 {
		return ErrInvalidHole
	}
	if (in.Gross != nil && *in.Gross < 1) || (in.Putts != nil && *in.Putts < 0) {
		return ErrInvalidScore
	}
	return nil
}

// WolfInput is the Wolf's call on one hole. A nil WolfID keeps the default rotation.
type WolfInput struct {
	HoleNumber int
	WolfID     *uuid.UUID
	Decision   scoring.WolfDecision
	DecidedBy  uuid.UUID
}

// LoadGame reads the round and everything the engine needs to score it. All reads share one
// read-only repeatable-read transaction so a score saved halfway through can't produce a
// half-updated snapshot.
func (r *Rounds) LoadGame(ctx context.Context, roundID uuid.UUID) (scoring.Game, error) {
	var rec roundRecords

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Tee.Course").Preload("Tee.Holes").First(&rec.round, "id = ?", roundID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoundNotFound
		}
		if err != nil {
			return fmt.Errorf("load round: %w", err)
		}

		if err := tx.Preload("EventPlayer.User").
			Where("round_id = ?", roundID).
			Order("play_order, created_at").
			Find(&rec.players).Error; err != nil {
			return fmt.Errorf("load round players: %w", err)
		}

		playerIDs := tx.Model(&models.RoundPlayer{}).Select("id").Where("round_id = ?", roundID)
		if err := tx.Where("round_player_id IN (?)", playerIDs).Find(&rec.scores).Error; err != nil {
			return fmt.Errorf("load scores: %w", err)
		}

		if err := tx.Preload("Members").
			Where("round_id = ?", roundID).
			Order("created_at").
			Find(&rec.teams).Error; err != nil {
			return fmt.Errorf("load teams: %w", err)
		}

		if err := tx.Where("round_id = ?", roundID).Order("hole_number").Find(&rec.wolf).Error; err != nil {
			return fmt.Errorf("load wolf assignments: %w", err)
		}
		return nil
	}, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return scoring.Game{}, err
	}

	return rec.game(r.logger), nil
}

// SaveScore inserts or replaces one hole's entry for a player of the round.
func (r *Rounds) SaveScore(ctx context.Context, roundID uuid.UUID, in ScoreInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePlayers(tx, roundID, in.RoundPlayerID); err != nil {
			return err
		}

		score := models.Score{
			RoundPlayerID: in.RoundPlayerID,
			HoleNumber:    in.HoleNumber,
			GrossScore:    in.Gross,
			FairwayHit:    in.FairwayHit,
			GreenHit:      in.GreenHit,
			Putts:         in.Putts,
			EnteredBy:     in.EnteredBy,
		}
		// One row per player and hole: a resubmission overwrites the earlier entry.
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_player_id"}, {Name: "hole_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"gross_score", "fairway_hit", "green_hit", "putts", "entered_by", "updated_at"}),
		}).Create(&score).Error
		if err != nil {
			return fmt.Errorf("save score: %w", err)
		}
		return nil
	})
}

// SaveWolfAssignment records the Wolf's call for a hole. The call has to be made before the
// group tees off, so it is refused once any gross score exists for that hole.
func (r *Rounds) SaveWolfAssignment(ctx context.Context, roundID uuid.UUID, in WolfInput) error {
	if in.HoleNumber < 1 || in.HoleNumber > 18 {
		return ErrInvalidHole
	}

	var referenced []uuid.UUID
	if in.WolfID != nil {
		referenced = append(referenced, *in.WolfID)
	}
	if in.Decision.Kind == scoring.WolfPartner {
		partner, err := uuid.Parse(in.Decision.PartnerID)
		if err != nil {
			return fmt.Errorf("%w: partner %q", ErrInvalidDecision, in.Decision.PartnerID)
		}
		if in.WolfID != nil && partner == *in.WolfID {
			return fmt.Errorf("%w: the wolf cannot partner themselves", ErrInvalidDecision)
		}
		referenced = append(referenced, partner)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePlayers(tx, roundID, referenced...); err != nil {
			return err
		}

		var started int64
		err := tx.Model(&models.Score{}).
			Joins("JOIN round_players ON round_players.id = scores.round_player_id").
			Where("round_players.round_id = ? AND scores.hole_number = ? AND scores.gross_score IS NOT NULL", roundID, in.HoleNumber).
			Count(&started).Error
		if err != nil {
			return fmt.Errorf("check hole: %w", err)
		}
		if started > 0 {
			return ErrHoleStarted
		}

		a := models.WolfAssignment{
			RoundID:    roundID,
			HoleNumber: in.HoleNumber,
			WolfID:     in.WolfID,
			Decision:   in.Decision.String(),
			DecidedBy:  in.DecidedBy,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "hole_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"wolf_id", "decision", "decided_by", "updated_at"}),
		}).Create(&a).Error
		if err != nil {
			return fmt.Errorf("save wolf assignment: %w", err)
		}
		return nil
	})
}

// CanScore reports whether a user may enter scores for a round: admins and scorers always,
// otherwise players in the round and organizers of its event.
func (r *Rounds) CanScore(ctx context.Context, roundID, userID uuid.UUID, role models.UserRole) (bool, error) {
	if role == models.UserRoleAdmin || role == models.UserRoleScorer {
		return true, nil
	}

	var n int64
	err := r.db.WithContext(ctx).Model(&models.EventPlayer{}).
		Joins("JOIN rounds ON rounds.event_id = event_players.event_id").
		Where("rounds.id = ? AND event_players.user_id = ?", roundID, userID).
		Where("(event_players.role = ? OR EXISTS (?))",
			models.EventPlayerRoleOrganizer,
			r.db.Model(&models.RoundPlayer{}).
				Select("1").
				Where("round_players.round_id = rounds.id AND round_players.event_player_id = event_players.id"),
		).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check scoring permission: %w", err)
	}
	return n > 0, nil
}

// requirePlayers checks the round exists and that every id is one of its round players.
func requirePlayers(tx *gorm.DB, roundID uuid.UUID, ids ...uuid.UUID) error {
	var round models.Round
	err := tx.Select("id").First(&round, "id = ?", roundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoundNotFound
	}
	if err != nil {
		return fmt.Errorf("load round: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	var n int64
	if err := tx.Model(&models.RoundPlayer{}).
		Where("round_id = ? AND id IN ?", roundID, ids).
		Count(&n).Error; err != nil {
		return fmt.Errorf("check round players: %w", err)
	}
	if int(n) != len(ids) {
		return ErrPlayerNotInRound
	}
	return nil
}
