package scoring

import "fmt"

// Labels shared by every match status.
const (
	LabelWaiting   = "Waiting for opponent"
	LabelAllSquare = "All Square"
	LabelEven      = "E"
)

// MatchVariant selects what the tracker accumulates per hole.
type MatchVariant int

const (
	// HoleByHole is classic match play: each hole is won, lost or halved.
	HoleByHole MatchVariant = iota
	// StrokeDifferential adds up stroke differences instead and never decides early.
	StrokeDifferential
)

// MatchTracker folds hole results between a left and a right side into a running match
// status. The differential is positive when the left side is ahead.
//
// A hole where either side has no value is skipped entirely; that is how a player who is
// still waiting for the opponent's score is modelled. Once the trailing side can no longer
// catch up the result is locked and every later hole reports the same label.
type MatchTracker struct {
	left, right string
	totalHoles  int
	variant     MatchVariant

	differential int
	holesPlayed  int
	locked       string
}

// NewMatchTracker creates a tracker for a match over totalHoles holes. left and right are
// the display names used in labels.
func NewMatchTracker(left, right string, totalHoles int, variant MatchVariant) *MatchTracker {
	return &MatchTracker{left: left, right: right, totalHoles: totalHoles, variant: variant}
}

// Record folds one hole into the match. It reports whether the hole counted.
// After the match is locked holes still count toward HolesPlayed, but the differential and
// the label no longer move.
func (t *MatchTracker) Record(left, right *int) bool {
	if left == nil || right == nil {
		return false
	}
	t.holesPlayed++
	if t.locked != "" {
		return true
	}

	if t.variant == StrokeDifferential {
		t.differential += *right - *left
		return true
	}

	switch {
	case *left < *right:
		t.differential++
	case *left > *right:
		t.differential--
	}

	remaining := t.Remaining()
	if lead := abs(t.differential); lead > remaining {
		t.locked = fmt.Sprintf("%s won %d-%d", t.Leader(), lead, remaining)
	}
	return true
}

// Differential is the running score, positive in favour of the left side.
func (t *MatchTracker) Differential() int { return t.differential }

// HolesPlayed is the number of holes both sides have completed.
func (t *MatchTracker) HolesPlayed() int { return t.holesPlayed }

// Remaining is the number of holes still to be counted.
func (t *MatchTracker) Remaining() int { return max(0, t.totalHoles-t.holesPlayed) }

// Locked returns the frozen result label, if the match has been decided.
func (t *MatchTracker) Locked() (string, bool) { return t.locked, t.locked != "" }

// Leader names the side that is ahead, or "" when the match is level.
func (t *MatchTracker) Leader() string {
	switch {
	case t.differential > 0:
		return t.left
	case t.differential < 0:
		return t.right
	}
	return ""
}

// Label renders the current match status.
func (t *MatchTracker) Label() string {
	if t.holesPlayed == 0 {
		return LabelWaiting
	}
	if t.locked != "" {
		return t.locked
	}
	if t.variant == StrokeDifferential {
		return strokeLabel(-t.differential)
	}
	if t.differential == 0 {
		return LabelAllSquare
	}
	return fmt.Sprintf("%s %d UP", t.Leader(), abs(t.differential))
}

// strokeLabel formats a stroke count relative to a reference: "E", "+3", "-2".
func strokeLabel(strokes int) string {
	if strokes == 0 {
		return LabelEven
	}
	return fmt.Sprintf("%+d", strokes)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
