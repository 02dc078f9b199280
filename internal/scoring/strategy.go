package scoring

import (
	"fmt"
	"log/slog"
	"slices"
)

// --- Format strategies ---
// A format is described by three independent choices instead of one calculator per format:
// which value is compared (gross or net), how players are grouped into sides, and how a hole
// turns into points. The engine drives the same hole loop for every format and only asks
// these strategies for the parts that differ.

// Comparable selects which per-hole value a format compares.
type Comparable int

const (
	CompareGross Comparable = iota
	CompareNet
)

func (c Comparable) String() string {
	if c == CompareNet {
		return "net"
	}
	return "gross"
}

// side is one competing unit: a single player, or a two-player team playing best ball.
type side struct {
	id      string
	name    string
	members []Player
}

func (s side) memberNames() []string {
	if len(s.members) < 2 {
		return nil
	}
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.DisplayName
	}
	return names
}

// Grouping decides how the players of a game become sides.
type Grouping interface {
	Name() string
	sides(g Game) []side
}

var (
	// Solo makes every player a side of their own.
	Solo Grouping = soloGrouping{}
	// TeamBestBall makes every team a side whose hole value is its better member's score.
	TeamBestBall Grouping = teamGrouping{}
	// WolfTriad is the three-player Wolf group; each player still scores individually.
	WolfTriad Grouping = wolfGrouping{}
)

type soloGrouping struct{}

func (soloGrouping) Name() string { return "solo" }

func (soloGrouping) sides(g Game) []side {
	players := g.Players
	if len(players) == 0 {
		// Team rounds can still be shown as individual scorecards.
		for _, t := range g.Teams {
			players = append(players, t.Players[:]...)
		}
	}
	out := make([]side, 0, len(players))
	for _, p := range players {
		out = append(out, side{id: p.ID, name: p.DisplayName, members: []Player{p}})
	}
	return out
}

type teamGrouping struct{}

func (teamGrouping) Name() string { return "team-best-ball" }

func (teamGrouping) sides(g Game) []side {
	out := make([]side, 0, len(g.Teams))
	for _, t := range g.Teams {
		out = append(out, side{id: t.ID, name: t.Name, members: []Player{t.Players[0], t.Players[1]}})
	}
	return out
}

type wolfGrouping struct{}

func (wolfGrouping) Name() string { return "wolf-triad" }

func (wolfGrouping) sides(g Game) []side { return soloGrouping{}.sides(g) }

// holeContext is what a PointRule sees for one hole.
type holeContext struct {
	game   Game
	hole   Hole
	sides  []side
	values map[string]*int
	groups []TieGroup
	logger *slog.Logger
}

// complete reports whether every side has a value on this hole.
func (h holeContext) complete() bool {
	return groupedCount(h.groups) == len(h.sides)
}

// PointRule awards points for a single hole.
type PointRule interface {
	Name() string
	holePoints(h holeContext) map[string]int
}

var (
	StablefordPoints PointRule = stablefordRule{}
	AmericanTable    PointRule = americanRule{}
	WolfPayouts      PointRule = wolfRule{}
)

type stablefordRule struct{}

func (stablefordRule) Name() string { return "stableford" }

// Stableford scores each side on its own: two points for a net par, one more for every
// stroke under and one less for every stroke over, never below zero.
func (stablefordRule) holePoints(h holeContext) map[string]int {
	points := make(map[string]int, len(h.sides))
	for _, s := range h.sides {
		if v := h.values[s.id]; v != nil {
			points[s.id] = StablefordHolePoints(*v, h.hole.Par)
		}
	}
	return points
}

// StablefordHolePoints converts a net score on a hole of the given par into points.
func StablefordHolePoints(net, par int) int {
	return max(0, 2+par-net)
}

type americanRule struct{}

func (americanRule) Name() string { return "american" }

// The American table only makes sense once the whole field has a score on the hole.
func (americanRule) holePoints(h holeContext) map[string]int {
	if !h.complete() {
		return nil
	}
	return AmericanHolePoints(h.groups)
}

type wolfRule struct{}

func (wolfRule) Name() string { return "wolf" }

func (wolfRule) holePoints(h holeContext) map[string]int {
	ids := make([]string, len(h.sides))
	for i, s := range h.sides {
		ids[i] = s.id
	}

	var assignment *WolfAssignment
	for i := range h.game.Wolf {
		if h.game.Wolf[i].HoleNumber == h.hole.Number {
			assignment = &h.game.Wolf[i]
			break
		}
	}
	if assignment == nil || assignment.Decision.Kind == WolfNone {
		return nil
	}

	wolfID := assignment.WolfID
	if wolfID == "" {
		wolfID = WolfRotation(ids, h.hole.Number)
	}
	others := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == wolfID })
	if len(others) != 2 {
		h.logger.Warn("wolf assignment names a player outside the group",
			slog.String("game_id", h.game.ID),
			slog.Int("hole", h.hole.Number),
			slog.String("wolf_id", wolfID),
		)
		return nil
	}
	d := assignment.Decision
	if d.Kind == WolfPartner && !slices.Contains(others, d.PartnerID) {
		h.logger.Warn("wolf partner is not in the group",
			slog.String("game_id", h.game.ID),
			slog.Int("hole", h.hole.Number),
			slog.String("partner_id", d.PartnerID),
		)
		return nil
	}

	return ResolveWolfHole(WolfHole{
		WolfID:   wolfID,
		OtherIDs: [2]string{others[0], others[1]},
		Values:   h.values,
		Decision: d,
	})
}

// Ranking is how a finished set of rows is ordered.
type Ranking int

const (
	RankByPoints  Ranking = iota // points desc, then strokes asc
	RankByMatch                  // holes up desc, then strokes asc
	RankByStrokes                // strokes asc, then head-to-head hole differential desc
	RankNone                     // keep the input order
)

// FormatRules bundles the strategies for one format.
type FormatRules struct {
	Code       FormatCode
	Comparable Comparable
	Grouping   Grouping
	Points     PointRule // nil when the format awards no points
	Ranking    Ranking
	MinField   int
	MaxField   int // 0 means no upper bound
}

var formatRules = map[FormatCode]FormatRules{
	FormatStableford:           {Comparable: CompareNet, Grouping: Solo, Points: StablefordPoints, Ranking: RankByPoints, MinField: 1},
	FormatMatchPlayHandicap1v1: {Comparable: CompareNet, Grouping: Solo, Ranking: RankByMatch, MinField: 2, MaxField: 2},
	FormatMatchPlayGross1v1:    {Comparable: CompareGross, Grouping: Solo, Ranking: RankByMatch, MinField: 2, MaxField: 2},
	FormatMatchPlayHandicap2v2: {Comparable: CompareNet, Grouping: TeamBestBall, Ranking: RankByMatch, MinField: 2, MaxField: 2},
	FormatMatchPlayGross2v2:    {Comparable: CompareGross, Grouping: TeamBestBall, Ranking: RankByMatch, MinField: 2, MaxField: 2},
	FormatAmericanGross:        {Comparable: CompareGross, Grouping: Solo, Points: AmericanTable, Ranking: RankByPoints, MinField: 3, MaxField: 4},
	FormatAmericanNet:          {Comparable: CompareNet, Grouping: Solo, Points: AmericanTable, Ranking: RankByPoints, MinField: 3, MaxField: 4},
	FormatWolfGross:            {Comparable: CompareGross, Grouping: WolfTriad, Points: WolfPayouts, Ranking: RankByPoints, MinField: 3, MaxField: 3},
	FormatWolfHandicap:         {Comparable: CompareNet, Grouping: WolfTriad, Points: WolfPayouts, Ranking: RankByPoints, MinField: 3, MaxField: 3},
	FormatStrokePlay:           {Comparable: CompareGross, Grouping: Solo, Ranking: RankByStrokes, MinField: 1},
	FormatScorecardOnly:        {Comparable: CompareGross, Grouping: Solo, Ranking: RankNone},
}

// RulesFor returns the strategies for a canonical code. Unknown codes get scorecard-only.
func RulesFor(code FormatCode) FormatRules {
	rules, ok := formatRules[code]
	if !ok {
		code = FormatScorecardOnly
		rules = formatRules[code]
	}
	rules.Code = code
	return rules
}

// Status messages for fields that cannot be scored.
const (
	StatusWaitingForPlayers = "Waiting for players"
)

// fieldStatus explains why a field of n sides cannot be scored, or returns "".
func (r FormatRules) fieldStatus(n int) string {
	switch {
	case n == 0:
		return StatusWaitingForPlayers
	case r.Ranking == RankByMatch && n < r.MinField:
		return LabelWaiting
	case n < r.MinField || (r.MaxField > 0 && n > r.MaxField):
		return fmt.Sprintf("Invalid format for %d participants", n)
	}
	return ""
}
