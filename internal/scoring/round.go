package scoring

import (
	"cmp"
	"slices"
)

// playedHoles returns the holes that make up this round, in hole-number order.
//
// For a 9-hole round on a longer course the front or back nine is picked and the stroke
// indexes of the selected holes are re-ranked 1..9 in their original relative order, so
// the allocation rule keeps handing out strokes hardest-first. Stroke indexes that were
// already out of range stay out of range (and so still allocate nothing).
func playedHoles(g Game) []Hole {
	holes := slices.Clone(g.Course.Holes)
	slices.SortStableFunc(holes, func(a, b Hole) int { return cmp.Compare(a.Number, b.Number) })

	n := g.HoleCount
	if n <= 0 || n > len(holes) {
		n = len(holes)
	}
	if n == len(holes) {
		return holes
	}

	courseSize := len(holes)
	if g.Nine == NineBack && len(holes) >= 2*n {
		holes = holes[n : 2*n]
	} else {
		holes = holes[:n]
	}
	return rerankStrokeIndexes(holes, courseSize)
}

func rerankStrokeIndexes(holes []Hole, courseSize int) []Hole {
	order := make([]int, 0, len(holes))
	for i, h := range holes {
		if h.StrokeIndex >= 1 && h.StrokeIndex <= courseSize {
			order = append(order, i)
		} else {
			holes[i].StrokeIndex = 0
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(holes[a].StrokeIndex, holes[b].StrokeIndex),
			cmp.Compare(holes[a].Number, holes[b].Number),
		)
	})
	for rank, i := range order {
		holes[i].StrokeIndex = rank + 1
	}
	return holes
}

// grossOf returns a player's recorded gross on a hole, treating zero as not played.
func grossOf(p Player, h Hole) *int {
	s, ok := p.Scores[h.Number]
	if !ok || s.Gross == nil || *s.Gross <= 0 {
		return nil
	}
	return intPtr(*s.Gross)
}

// netOf derives a player's net score on a hole of a round with holeCount holes.
func netOf(p Player, h Hole, holeCount int) *int {
	return NetScore(grossOf(p, h), p.Handicap, h.StrokeIndex, holeCount)
}

func valueOf(p Player, h Hole, holeCount int, c Comparable) *int {
	if c == CompareNet {
		return netOf(p, h, holeCount)
	}
	return grossOf(p, h)
}

// sideValue is the best member value for the side (a plain player value for solo sides).
func sideValue(s side, h Hole, holeCount int, c Comparable) *int {
	var best *int
	for _, m := range s.members {
		v := valueOf(m, h, holeCount, c)
		if v != nil && (best == nil || *v < *best) {
			best = v
		}
	}
	return best
}
