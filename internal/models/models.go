// Package models defines the GORM structs that map to the database tables.
// The struct tags (`gorm:"..."`) describe column types, constraints and relationships;
// the schema itself is created by the SQL files in migrations/, and these tags must agree
// with them.
//
// The hierarchy is Event → Round → RoundPlayer → Score. A round is played on one tee set of
// a course, under one scoring format, over 9 or 18 holes. Teams and Wolf assignments hang
// off the round because they only mean something for that day's game.
//
// Nothing here is scored: net scores, points and match status are computed from these rows
// by the scoring package every time a leaderboard is requested.
package models

import (
	"time"

	"github.com/google/uuid"
	// decimal keeps handicap indexes such as 14.2 exact instead of binary floats.
	"github.com/shopspring/decimal"
)

// --- Enums ---
// Named string types give compile-time safety while staying readable in the database,
// where each one is backed by a Postgres ENUM of the same name.

// UserRole is a user's platform-wide permission level.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access to every event and round
	UserRoleManager UserRole = "manager" // Can create events
	UserRoleScorer  UserRole = "scorer"  // Can enter scores for any round (marker, tournament desk)
	UserRoleUser    UserRole = "user"    // Plays and enters their own group's scores
)

// EventType describes what kind of competition an event is.
type EventType string

const (
	EventTypeLeague     EventType = "league"
	EventTypeTournament EventType = "tournament"
	EventTypeCasual     EventType = "casual"
)

// EventStatus tracks the lifecycle of an event.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventPlayerRole is what a member may do inside one event.
type EventPlayerRole string

const (
	EventPlayerRoleOrganizer EventPlayerRole = "organizer" // Manages the event and may score any of its rounds
	EventPlayerRolePlayer    EventPlayerRole = "player"
)

// EventPlayerStatus tracks a member's participation in an event.
type EventPlayerStatus string

const (
	EventPlayerStatusInvited    EventPlayerStatus = "invited"
	EventPlayerStatusRegistered EventPlayerStatus = "registered"
	EventPlayerStatusWithdrawn  EventPlayerStatus = "withdrawn"
)

// RoundStatus tracks the lifecycle of a round.
type RoundStatus string

const (
	RoundStatusScheduled RoundStatus = "scheduled"
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
)

// RoundPlayerStatus tracks a player's state in one round. Withdrawn players are left out of
// the scoring snapshot entirely.
type RoundPlayerStatus string

const (
	RoundPlayerStatusRegistered RoundPlayerStatus = "registered"
	RoundPlayerStatusActive     RoundPlayerStatus = "active"
	RoundPlayerStatusWithdrawn  RoundPlayerStatus = "withdrawn"
	RoundPlayerStatusCompleted  RoundPlayerStatus = "completed"
)

// TeeGender indicates which gender a tee set is rated for.
type TeeGender string

const (
	TeeGenderMens   TeeGender = "mens"
	TeeGenderWomens TeeGender = "womens"
	TeeGenderUnisex TeeGender = "unisex"
)

// --- Models ---

// User is a person who signed in through Clerk. Rows are created lazily by the auth
// middleware the first time a token for a new Clerk ID is seen.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClerkID     *string   `gorm:"uniqueIndex:idx_users_clerk_id"`
	DisplayName string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex;not null"`
	Role        UserRole  `gorm:"type:user_role;not null;default:'user'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event groups rounds: a league season, a tournament, or a casual day out.
type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string      `gorm:"not null"`
	Description *string
	EventType   EventType   `gorm:"type:event_type;not null"`
	Status      EventStatus `gorm:"type:event_status;not null;default:'upcoming'"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	Creator     User      `gorm:"foreignKey:CreatedBy"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Players     []EventPlayer `gorm:"foreignKey:EventID"`
	Rounds      []Round       `gorm:"foreignKey:EventID"`
}

// EventPlayer is a user's membership in an event.
type EventPlayer struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_event_user"`
	User      User              `gorm:"foreignKey:UserID"`
	Role      EventPlayerRole   `gorm:"type:event_player_role;not null;default:'player'"`
	Status    EventPlayerStatus `gorm:"type:event_player_status;not null;default:'registered'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Round is one game inside an event.
//
// ScoringFormat is free text ("Best Ball", "wolf handicap", ...) exactly as the organizer
// typed it; the scoring package normalizes it, and unknown names still render as a plain
// scorecard. HoleCount is 9 or 18. Nine picks the half of an 18-hole tee set that a 9-hole
// round uses and is ignored otherwise.
type Round struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID       uuid.UUID   `gorm:"type:uuid;not null"`
	Event         Event       `gorm:"foreignKey:EventID"`
	TeeID         uuid.UUID   `gorm:"type:uuid;not null"`
	Tee           Tee         `gorm:"foreignKey:TeeID"`
	RoundNumber   int         `gorm:"not null;default:1"`
	ScheduledDate time.Time   `gorm:"not null"`
	Status        RoundStatus `gorm:"type:round_status;not null;default:'scheduled'"`
	ScoringFormat string      `gorm:"not null;default:'scorecard-only'"`
	HoleCount     int         `gorm:"not null;default:18"`
	Nine          string      `gorm:"not null;default:'front'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoundPlayer puts an event member into a round with the handicap they play off that day.
//
// HandicapIndex is the player's index when the round was set up. CourseHandicap, when an
// organizer fills it in, is the playing handicap for this tee and overrides the index.
// Changing either later re-scores every hole already played, because net scores are never
// stored. PlayOrder is the order players were entered in; it fixes leaderboard order for
// unranked formats and the default Wolf rotation.
type RoundPlayer struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_round_event_player"`
	EventPlayerID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_round_event_player"`
	EventPlayer    EventPlayer       `gorm:"foreignKey:EventPlayerID"`
	PlayOrder      int               `gorm:"not null;default:0"`
	HandicapIndex  decimal.Decimal   `gorm:"type:decimal(4,1);not null;default:0"`
	CourseHandicap *int
	Status         RoundPlayerStatus `gorm:"type:round_player_status;not null;default:'registered'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PlayingHandicap is the handicap the scoring engine should use for this player.
func (rp RoundPlayer) PlayingHandicap() decimal.Decimal {
	if rp.CourseHandicap != nil {
		return decimal.NewFromInt(int64(*rp.CourseHandicap))
	}
	return rp.HandicapIndex
}

// Score is what was recorded for one player on one hole. Every measured value is nullable:
// a row may exist with only putts or fairway data while the gross is still pending, and
// clearing GrossScore takes the hole back out of the leaderboard.
type Score struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundPlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_player_hole"`
	HoleNumber    int       `gorm:"not null;uniqueIndex:idx_round_player_hole"`
	GrossScore    *int
	FairwayHit    *bool
	GreenHit      *bool
	Putts         *int
	EnteredBy     uuid.UUID `gorm:"type:uuid;not null"`
	EnteredAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Team is a two-player side for the best-ball formats. Teams belong to a round because
// pairings change from one round to the next.
type Team struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID   uuid.UUID    `gorm:"type:uuid;not null"`
	Name      string       `gorm:"not null"`
	Members   []TeamMember `gorm:"foreignKey:TeamID"`
	CreatedAt time.Time
}

// TeamMember places a round player on a team. Slot (0 or 1) keeps the pair's order stable.
type TeamMember struct {
	TeamID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	RoundPlayerID uuid.UUID   `gorm:"type:uuid;primaryKey"`
	RoundPlayer   RoundPlayer `gorm:"foreignKey:RoundPlayerID"`
	Slot          int         `gorm:"not null;default:0"`
}

// WolfAssignment is the Wolf and their call on one hole of a Wolf round.
// WolfID is nullable so a decision can be stored for the rotation's default wolf.
// Decision uses the text form understood by scoring.ParseWolfDecision
// ("partner:<round player id>", "lone", "blind" or "none").
type WolfAssignment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoundID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_round_wolf_hole"`
	HoleNumber int        `gorm:"not null;uniqueIndex:idx_round_wolf_hole"`
	WolfID     *uuid.UUID `gorm:"type:uuid"`
	Decision   string     `gorm:"not null;default:'none'"`
	DecidedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Course is a golf course; each course has one or more tee sets.
type Course struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null;default:''"`
	State     string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tees      []Tee `gorm:"foreignKey:CourseID"`
}

// Tee is one set of tee boxes. Par and stroke index live on its holes because they can
// differ between tee sets of the same course.
type Tee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID     uuid.UUID       `gorm:"type:uuid;not null"`
	Course       Course          `gorm:"foreignKey:CourseID"`
	Name         string          `gorm:"not null"`
	Gender       TeeGender       `gorm:"type:tee_gender;not null"`
	CourseRating decimal.Decimal `gorm:"type:decimal(4,1);not null"`
	SlopeRating  int             `gorm:"not null"`
	Holes        []Hole          `gorm:"foreignKey:TeeID"`
}

// Hole is one hole of a tee set. StrokeIndex 1 is the hardest hole and receives the first
// handicap stroke.
type Hole struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeeID       uuid.UUID `gorm:"type:uuid;not null"`
	HoleNumber  int       `gorm:"not null"`
	Par         int       `gorm:"not null"`
	StrokeIndex int       `gorm:"not null"`
	Yardage     *int
}
