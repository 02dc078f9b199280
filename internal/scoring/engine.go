// Package scoring is the golf competition scoring engine.
//
// It takes a Game snapshot (course, players or teams, recorded hole scores and a format name)
// and recomputes everything from scratch on every call: net scores from handicaps, per-hole
// tie groups, points or match status, and the ranked leaderboard. Nothing is cached between
// calls and nothing in the snapshot is modified, so an Engine can be shared freely between
// goroutines and a newer snapshot simply means calling it again.
package scoring

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Observer receives one callback per computed leaderboard. The metrics package implements it.
type Observer interface {
	ObserveLeaderboard(code FormatCode, rows int, sentinel bool, elapsed time.Duration)
}

// Engine computes leaderboards and scorecards. The zero value is not usable; call NewEngine.
type Engine struct {
	formats  *FormatRegistry
	logger   *slog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithFormats replaces the built-in alias registry.
func WithFormats(r *FormatRegistry) Option { return func(e *Engine) { e.formats = r } }

// WithLogger sets the logger used for degraded-data diagnostics.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithObserver hooks up leaderboard metrics.
func WithObserver(o Observer) Option { return func(e *Engine) { e.observer = o } }

// NewEngine builds an Engine with the built-in formats and a discarding logger.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		formats: DefaultFormats,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Formats exposes the registry the engine resolves names with.
func (e *Engine) Formats() *FormatRegistry { return e.formats }

// ResolveFormat picks the format for a game: the override when it's non-blank, the game's
// stored format otherwise. Unknown names fall back to scorecard-only.
func (e *Engine) ResolveFormat(g Game, override string) FormatCode {
	raw := g.Format
	if strings.TrimSpace(override) != "" {
		raw = override
	}
	code, ok := e.formats.Lookup(raw)
	if !ok {
		e.logger.Debug("unknown format, scoring as scorecard only",
			slog.String("game_id", g.ID),
			slog.String("format", raw),
		)
		return FormatScorecardOnly
	}
	return code
}

// ComputeLeaderboard scores the whole game and returns the ranked rows.
// When the field can't be scored under the chosen format (no opponent yet, wrong number of
// players for Wolf or American) a single row with Waiting set explains why.
func (e *Engine) ComputeLeaderboard(g Game, override string) []LeaderboardRow {
	start := time.Now()
	code := e.ResolveFormat(g, override)
	rows, sentinel := e.leaderboard(g, RulesFor(code))
	if e.observer != nil {
		e.observer.ObserveLeaderboard(code, len(rows), sentinel, time.Since(start))
	}
	return rows
}

func (e *Engine) leaderboard(g Game, rules FormatRules) ([]LeaderboardRow, bool) {
	sides := rules.Grouping.sides(g)
	if status := rules.fieldStatus(len(sides)); status != "" {
		e.logger.Debug("field cannot be scored",
			slog.String("game_id", g.ID),
			slog.String("format", string(rules.Code)),
			slog.Int("participants", len(sides)),
			slog.String("status", status),
		)
		return []LeaderboardRow{{Status: status, Waiting: true}}, true
	}

	c := e.play(g, rules, sides)
	rows := c.rows()
	return rankRows(rows, rules.Ranking), false
}

// holeResult is everything the engine worked out for one hole.
type holeResult struct {
	hole        Hole
	values      map[string]*int // comparable value per side
	groups      []TieGroup
	points      map[string]int
	matchStatus string
}

// card is a fully played round under one format.
type card struct {
	rules     FormatRules
	sides     []side
	holeCount int
	holes     []holeResult
	match     *MatchTracker
}

// play runs the shared hole loop: compute each side's comparable value, partition the
// values into tie groups, ask the point rule for points and feed the match tracker.
func (e *Engine) play(g Game, rules FormatRules, sides []side) *card {
	holes := playedHoles(g)
	c := &card{rules: rules, sides: sides, holeCount: len(holes)}

	if rules.Ranking == RankByMatch {
		c.match = NewMatchTracker(sides[0].name, sides[1].name, len(holes), HoleByHole)
	}

	for _, h := range holes {
		hr := holeResult{hole: h, values: make(map[string]*int, len(sides))}
		entries := make([]Entry, len(sides))
		for i, s := range sides {
			v := sideValue(s, h, len(holes), rules.Comparable)
			hr.values[s.id] = v
			entries[i] = Entry{ID: s.id, Value: v}
		}
		hr.groups = PartitionTies(entries, LowerIsBetter)

		if rules.Points != nil {
			hr.points = rules.Points.holePoints(holeContext{
				game:   g,
				hole:   h,
				sides:  sides,
				values: hr.values,
				groups: hr.groups,
				logger: e.logger,
			})
		}
		if c.match != nil {
			c.match.Record(hr.values[sides[0].id], hr.values[sides[1].id])
			hr.matchStatus = c.match.Label()
		}
		c.holes = append(c.holes, hr)
	}
	return c
}

// rows folds the per-hole results into one row per side.
func (c *card) rows() []LeaderboardRow {
	rows := make([]LeaderboardRow, len(c.sides))
	for i, s := range c.sides {
		row := LeaderboardRow{ParticipantID: s.id, Name: s.name, Members: s.memberNames()}
		par := NewMatchTracker(s.name, "par", c.holeCount, StrokeDifferential)

		for _, hr := range c.holes {
			if hr.values[s.id] != nil {
				row.Thru++
			}
			if gross := sideValue(s, hr.hole, c.holeCount, CompareGross); gross != nil {
				row.TotalStrokes += *gross
				par.Record(gross, intPtr(hr.hole.Par))
			}
			if net := sideValue(s, hr.hole, c.holeCount, CompareNet); net != nil {
				row.TotalNet += *net
			}
			row.Points += hr.points[s.id]
			row.matchDiff += headToHead(hr, s.id)
			for _, m := range s.members {
				addStats(&row, m.Scores[hr.hole.Number])
			}
		}

		row.IsRoundComplete = c.holeCount > 0 && row.Thru == c.holeCount
		if c.rules.Ranking == RankByStrokes && row.Thru > 0 {
			row.Status = par.Label()
		}
		rows[i] = row
	}

	if c.match != nil {
		diff := c.match.Differential()
		rows[0].HolesUp, rows[1].HolesUp = diff, -diff
		rows[0].Status = c.match.Label()
		rows[1].Status = rows[0].Status
	}
	return rows
}

// headToHead is +1 for every side this one beat on the hole and -1 for every side that beat it.
func headToHead(hr holeResult, id string) int {
	mine := hr.values[id]
	if mine == nil {
		return 0
	}
	diff := 0
	for other, v := range hr.values {
		if other == id || v == nil {
			continue
		}
		switch {
		case *mine < *v:
			diff++
		case *mine > *v:
			diff--
		}
	}
	return diff
}

func addStats(row *LeaderboardRow, s Score) {
	if s.FIR != nil && *s.FIR {
		row.Fairways++
	}
	if s.GIR != nil && *s.GIR {
		row.Greens++
	}
	if s.Putts != nil {
		row.Putts += *s.Putts
	}
}

// rankRows orders rows and assigns positions. Rows are first partitioned into tie groups on
// the format's primary key; a tied group shares a "T"-prefixed position and is ordered
// internally by the secondary key. Rows with no primary value (nothing played in stroke play)
// go last without a position.
func rankRows(rows []LeaderboardRow, ranking Ranking) []LeaderboardRow {
	if ranking == RankNone {
		return rows
	}

	dir := HigherIsBetter
	primary := func(r LeaderboardRow) *int { return intPtr(r.Points) }
	secondary := func(a, b LeaderboardRow) int { return cmp.Compare(a.TotalStrokes, b.TotalStrokes) }
	switch ranking {
	case RankByMatch:
		primary = func(r LeaderboardRow) *int { return intPtr(r.HolesUp) }
	case RankByStrokes:
		dir = LowerIsBetter
		primary = func(r LeaderboardRow) *int {
			if r.Thru == 0 {
				return nil
			}
			return intPtr(r.TotalStrokes)
		}
		secondary = func(a, b LeaderboardRow) int { return cmp.Compare(b.matchDiff, a.matchDiff) }
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{ID: strconv.Itoa(i), Value: primary(r)}
	}

	ranked := make([]LeaderboardRow, 0, len(rows))
	placed := make([]bool, len(rows))
	for _, g := range PartitionTies(entries, dir) {
		group := make([]LeaderboardRow, 0, len(g.IDs))
		for _, id := range g.IDs {
			i, _ := strconv.Atoi(id)
			placed[i] = true
			group = append(group, rows[i])
		}
		slices.SortStableFunc(group, secondary)

		pos := strconv.Itoa(len(ranked) + 1)
		if len(group) > 1 {
			pos = "T" + pos
		}
		for _, r := range group {
			r.Position = pos
			ranked = append(ranked, r)
		}
	}
	for i, r := range rows {
		if !placed[i] {
			ranked = append(ranked, r)
		}
	}
	return ranked
}

// String is handy in logs and the CLI.
func (r LeaderboardRow) String() string {
	if r.Waiting {
		return r.Status
	}
	return fmt.Sprintf("%s %s thru %d strokes %d points %d %s",
		r.Position, r.Name, r.Thru, r.TotalStrokes, r.Points, r.Status)
}
