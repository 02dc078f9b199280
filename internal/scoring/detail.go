package scoring

import "slices"

// Scorecard builds the per-hole annotated table for one participant. participantID may name
// a side (player or team) or a single member of a team; a member's card shows their own gross
// and net next to the team's best-ball value.
//
// If the field can't be scored under the chosen format the card still lists gross and net,
// just without points or outcomes. ok is false when nobody in the game has that ID.
func (e *Engine) Scorecard(g Game, override, participantID string) ([]HoleDetail, bool) {
	rules := RulesFor(e.ResolveFormat(g, override))
	sides := rules.Grouping.sides(g)
	if rules.fieldStatus(len(sides)) != "" {
		rules = RulesFor(FormatScorecardOnly)
		sides = rules.Grouping.sides(g)
	}

	si, member, ok := findParticipant(sides, participantID)
	if !ok {
		return nil, false
	}

	c := e.play(g, rules, sides)
	s := c.sides[si]
	details := make([]HoleDetail, 0, len(c.holes))
	for _, hr := range c.holes {
		d := HoleDetail{
			Hole:        hr.hole.Number,
			Par:         hr.hole.Par,
			StrokeIndex: hr.hole.StrokeIndex,
			Value:       hr.values[s.id],
			Points:      hr.points[s.id],
			Outcome:     OutcomePending,
			MatchStatus: hr.matchStatus,
		}
		if member != nil {
			d.Gross = grossOf(*member, hr.hole)
			d.Net = netOf(*member, hr.hole, c.holeCount)
			d.Allocated = AllocatedStrokes(member.Handicap, hr.hole.StrokeIndex, c.holeCount)
		} else {
			d.Gross = sideValue(s, hr.hole, c.holeCount, CompareGross)
			d.Net = sideValue(s, hr.hole, c.holeCount, CompareNet)
		}

		if gi := GroupIndex(hr.groups, s.id); gi >= 0 {
			d.TieRank = gi + 1
			d.TieSize = len(hr.groups[gi].IDs)
			if rules.Ranking != RankNone && groupedCount(hr.groups) == len(c.sides) {
				d.Outcome = outcomeFor(gi, d.TieSize)
			}
		}
		details = append(details, d)
	}
	return details, true
}

func outcomeFor(groupIndex, groupSize int) Outcome {
	switch {
	case groupIndex > 0:
		return OutcomeLost
	case groupSize > 1:
		return OutcomeHalved
	}
	return OutcomeWon
}

// findParticipant locates the side for an ID. member is set when the ID is a player inside
// a multi-player side.
func findParticipant(sides []side, id string) (int, *Player, bool) {
	for i, s := range sides {
		if s.id == id {
			if len(s.members) == 1 {
				return i, &s.members[0], true
			}
			return i, nil, true
		}
		if j := slices.IndexFunc(s.members, func(p Player) bool { return p.ID == id }); j >= 0 {
			return i, &s.members[j], true
		}
	}
	return 0, nil, false
}
