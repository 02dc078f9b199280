package repository

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/trentd187/golf-scoring/internal/models"
	"github.com/trentd187/golf-scoring/internal/scoring"
)

// roundRecords is everything read for one round, before it is turned into a Game.
type roundRecords struct {
	round   models.Round
	players []models.RoundPlayer
	scores  []models.Score
	teams   []models.Team
	wolf    []models.WolfAssignment
}

// game normalizes the rows into the engine's snapshot. Round player IDs become participant
// IDs everywhere (players, team members, Wolf assignments) so the API can address them
// directly. Rows that can't be represented (a team without exactly two active members,
// scores of withdrawn players) are left out and logged.
func (rec roundRecords) game(logger *slog.Logger) scoring.Game {
	g := scoring.Game{
		ID:        rec.round.ID.String(),
		Format:    rec.round.ScoringFormat,
		HoleCount: rec.round.HoleCount,
		Nine:      scoring.Nine(rec.round.Nine),
		Course:    courseOf(rec.round.Tee),
	}

	active := slices.Clone(rec.players)
	active = slices.DeleteFunc(active, func(rp models.RoundPlayer) bool {
		return rp.Status == models.RoundPlayerStatusWithdrawn
	})
	slices.SortStableFunc(active, func(a, b models.RoundPlayer) int {
		return cmp.Or(cmp.Compare(a.PlayOrder, b.PlayOrder), a.CreatedAt.Compare(b.CreatedAt))
	})

	index := make(map[string]int, len(active))
	for _, rp := range active {
		id := rp.ID.String()
		index[id] = len(g.Players)
		g.Players = append(g.Players, scoring.Player{
			ID:          id,
			DisplayName: rp.EventPlayer.User.DisplayName,
			Handicap:    rp.PlayingHandicap(),
			Scores:      map[int]scoring.Score{},
		})
	}

	for _, s := range rec.scores {
		i, ok := index[s.RoundPlayerID.String()]
		if !ok {
			continue
		}
		g.Players[i].Scores[s.HoleNumber] = scoring.Score{
			Gross: s.GrossScore,
			FIR:   s.FairwayHit,
			GIR:   s.GreenHit,
			Putts: s.Putts,
		}
	}

	for _, t := range rec.teams {
		members := slices.Clone(t.Members)
		slices.SortFunc(members, func(a, b models.TeamMember) int { return cmp.Compare(a.Slot, b.Slot) })

		var pair []scoring.Player
		for _, m := range members {
			if i, ok := index[m.RoundPlayerID.String()]; ok {
				pair = append(pair, g.Players[i])
			}
		}
		if len(pair) != 2 {
			logger.Warn("team skipped: needs exactly two active players",
				slog.String("round_id", g.ID),
				slog.String("team_id", t.ID.String()),
				slog.Int("players", len(pair)),
			)
			continue
		}
		g.Teams = append(g.Teams, scoring.Team{
			ID:      t.ID.String(),
			Name:    t.Name,
			Players: [2]scoring.Player{pair[0], pair[1]},
		})
	}

	for _, w := range rec.wolf {
		a := scoring.WolfAssignment{
			HoleNumber: w.HoleNumber,
			Decision:   scoring.ParseWolfDecision(w.Decision),
		}
		if w.WolfID != nil {
			a.WolfID = w.WolfID.String()
		}
		g.Wolf = append(g.Wolf, a)
	}
	return g
}

func courseOf(tee models.Tee) scoring.Course {
	c := scoring.Course{Name: tee.Course.Name}
	if tee.Name != "" {
		c.Name += " (" + tee.Name + ")"
	}
	for _, h := range tee.Holes {
		c.Holes = append(c.Holes, scoring.Hole{Number: h.HoleNumber, Par: h.Par, StrokeIndex: h.StrokeIndex})
	}
	slices.SortFunc(c.Holes, func(a, b scoring.Hole) int { return cmp.Compare(a.Number, b.Number) })
	return c
}
