package scoring

import "github.com/shopspring/decimal"

// Accepted handicap range. Anything outside it is treated as malformed data and receives no
// strokes at all rather than failing the computation.
const (
	MinHandicap = -10
	MaxHandicap = 54
)

var (
	minHandicap = decimal.NewFromInt(MinHandicap)
	maxHandicap = decimal.NewFromInt(MaxHandicap)
)

// AllocatedStrokes returns how many handicap strokes a player gets on a hole.
//
// Every hole receives floor(handicap / holeCount) strokes, and the remainder
// (handicap mod holeCount) is handed out one at a time starting from stroke index 1.
// The modulo is floored, so a plus handicap such as -2 on 18 holes takes a stroke back
// on the two easiest holes (stroke index 17 and 18) and nothing elsewhere.
//
// Fractional handicaps are fine: 14.2 on 18 holes gives one stroke on stroke indexes 1..14.
// An out-of-range stroke index, a non-positive hole count or a handicap outside
// [MinHandicap, MaxHandicap] yields zero.
func AllocatedStrokes(handicap decimal.Decimal, strokeIndex, holeCount int) int {
	if holeCount <= 0 || strokeIndex < 1 || strokeIndex > holeCount {
		return 0
	}
	if handicap.LessThan(minHandicap) || handicap.GreaterThan(maxHandicap) {
		return 0
	}

	n := decimal.NewFromInt(int64(holeCount))
	base := handicap.Div(n).Floor()
	extra := handicap.Sub(base.Mul(n))

	allocated := int(base.IntPart())
	if decimal.NewFromInt(int64(strokeIndex)).LessThanOrEqual(extra) {
		allocated++
	}
	return allocated
}

// NetScore converts a gross score into a net score for one hole.
// A nil or non-positive gross means the hole has not been played, so there is no net score
// either. The result never drops below zero.
func NetScore(gross *int, handicap decimal.Decimal, strokeIndex, holeCount int) *int {
	if gross == nil || *gross <= 0 {
		return nil
	}
	return intPtr(max(0, *gross-AllocatedStrokes(handicap, strokeIndex, holeCount)))
}
