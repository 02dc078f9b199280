package scoring

import "github.com/shopspring/decimal"

// --- Snapshot types ---
// These are the canonical records the engine works on. The repository layer (or the CLI's
// YAML loader) normalizes whatever it reads into these shapes, so the engine never has to
// care which storage field a value came from.

// Hole is one hole of a course as the engine sees it.
// Par is the expected strokes (3, 4 or 5) and StrokeIndex is the difficulty rank
// (1 = hardest) that decides where handicap strokes are given.
type Hole struct {
	Number      int `json:"number" yaml:"number"`
	Par         int `json:"par" yaml:"par"`
	StrokeIndex int `json:"stroke_index" yaml:"stroke_index"`
}

// Course is the ordered list of holes for the tee set being played.
type Course struct {
	Name  string `json:"name" yaml:"name"`
	Holes []Hole `json:"holes" yaml:"holes"`
}

// Score is what was recorded for one player on one hole.
// Every field is a pointer because "not entered yet" is a real state that must be kept
// apart from zero. Net is deliberately absent: it is derived from Gross, the player's
// handicap and the hole's stroke index on every computation.
type Score struct {
	Gross *int  `json:"gross,omitempty" yaml:"gross,omitempty"`
	FIR   *bool `json:"fir,omitempty" yaml:"fir,omitempty"`     // fairway in regulation
	GIR   *bool `json:"gir,omitempty" yaml:"gir,omitempty"`     // green in regulation
	Putts *int  `json:"putts,omitempty" yaml:"putts,omitempty"` // putts taken on the hole
}

// Player is an individual participant. Scores is keyed by hole number.
type Player struct {
	ID          string          `json:"id" yaml:"id"`
	DisplayName string          `json:"display_name" yaml:"display_name"`
	Handicap    decimal.Decimal `json:"handicap" yaml:"handicap"`
	Scores      map[int]Score   `json:"scores" yaml:"scores"`
}

// Team is a two-player side used by the best-ball match play formats.
type Team struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Players [2]Player `json:"players" yaml:"players"`
}

// WolfAssignment records who was the Wolf on a hole and what they decided.
// It has to be fixed before anyone records a score for the hole; the engine trusts the
// caller on that and simply scores whatever assignment it is given.
type WolfAssignment struct {
	HoleNumber int          `json:"hole_number" yaml:"hole_number"`
	WolfID     string       `json:"wolf_id" yaml:"wolf_id"`
	Decision   WolfDecision `json:"decision" yaml:"decision"`
}

// Nine selects which half of an 18-hole course a 9-hole round is played on.
type Nine string

const (
	NineFront Nine = "front"
	NineBack  Nine = "back"
)

// Game is the complete snapshot the engine scores.
// Format is the raw (possibly free-text) format name as stored; it is normalized through a
// FormatRegistry before use. HoleCount is 9 or 18; Nine only matters when HoleCount is 9.
type Game struct {
	ID        string           `json:"id" yaml:"id"`
	Format    string           `json:"format" yaml:"format"`
	Course    Course           `json:"course" yaml:"course"`
	HoleCount int              `json:"hole_count" yaml:"hole_count"`
	Nine      Nine             `json:"nine,omitempty" yaml:"nine,omitempty"`
	Players   []Player         `json:"players" yaml:"players"`
	Teams     []Team           `json:"teams,omitempty" yaml:"teams,omitempty"`
	Wolf      []WolfAssignment `json:"wolf,omitempty" yaml:"wolf,omitempty"`
}

// --- Output types ---

// LeaderboardRow is one line of a computed leaderboard.
// Points formats fill Points, match formats fill HolesUp and Status, stroke play puts the
// score relative to par in Status. Waiting marks the sentinel row returned when the field
// cannot be scored yet (Status then carries the reason).
type LeaderboardRow struct {
	ParticipantID   string   `json:"participant_id"`
	Name            string   `json:"name"`
	Members         []string `json:"members,omitempty"`
	Position        string   `json:"position"`
	Thru            int      `json:"thru"`
	TotalStrokes    int      `json:"total_strokes"`
	TotalNet        int      `json:"total_net"`
	Points          int      `json:"total_points"`
	HolesUp         int      `json:"holes_up"`
	Status          string   `json:"status,omitempty"`
	Fairways        int      `json:"fairways"`
	Greens          int      `json:"greens"`
	Putts           int      `json:"putts"`
	IsRoundComplete bool     `json:"is_round_complete"`
	Waiting         bool     `json:"waiting,omitempty"`

	// matchDiff is the head-to-head hole differential against the rest of the field,
	// used to break stroke play ties.
	matchDiff int
}

// Outcome is how a hole went for the participant a scorecard is built for.
type Outcome string

const (
	OutcomePending Outcome = "pending" // no comparable value yet
	OutcomeWon     Outcome = "won"     // alone in the best tie group
	OutcomeHalved  Outcome = "halved"  // shares the best tie group
	OutcomeLost    Outcome = "lost"    // somebody did better
)

// HoleDetail is one line of the per-hole annotated scorecard.
type HoleDetail struct {
	Hole        int     `json:"hole"`
	Par         int     `json:"par"`
	StrokeIndex int     `json:"stroke_index"`
	Gross       *int    `json:"gross"`
	Net         *int    `json:"net"`
	Allocated   int     `json:"allocated"`
	Value       *int    `json:"value"` // the comparable value used for this format (best ball for teams)
	Points      int     `json:"points"`
	Outcome     Outcome `json:"outcome"`
	TieRank     int     `json:"tie_rank"` // 1-based tie group, 0 when not ranked
	TieSize     int     `json:"tie_size"`
	MatchStatus string  `json:"match_status,omitempty"`
}

func intPtr(v int) *int { return &v }
