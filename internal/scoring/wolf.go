package scoring

import (
	"fmt"
	"strings"
)

// WolfDecisionKind enumerates what the Wolf can decide on a hole.
type WolfDecisionKind int

const (
	WolfNone    WolfDecisionKind = iota // nothing declared yet; the hole scores no points
	WolfPartner                         // Wolf picks one of the other two as a partner
	WolfLone                            // Wolf plays alone after seeing the tee shots
	WolfBlind                           // Wolf commits to playing alone before anyone tees off
)

// WolfDecision is a tagged union: PartnerID is only meaningful when Kind is WolfPartner.
type WolfDecision struct {
	Kind      WolfDecisionKind
	PartnerID string
}

// PartnerWith builds a partner decision.
func PartnerWith(partnerID string) WolfDecision {
	return WolfDecision{Kind: WolfPartner, PartnerID: partnerID}
}

// LoneWolf and BlindWolf build the two solo decisions.
func LoneWolf() WolfDecision  { return WolfDecision{Kind: WolfLone} }
func BlindWolf() WolfDecision { return WolfDecision{Kind: WolfBlind} }

// String renders the decision in its storage form: "", "lone", "blind" or "partner:<id>".
func (d WolfDecision) String() string {
	switch d.Kind {
	case WolfPartner:
		return "partner:" + d.PartnerID
	case WolfLone:
		return "lone"
	case WolfBlind:
		return "blind"
	}
	return ""
}

// ParseWolfDecision reads the storage form back. A bare ID (no "partner:" prefix) is
// accepted as a partner decision too, because that's how older rows stored it.
func ParseWolfDecision(s string) WolfDecision {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return WolfDecision{}
	case "lone":
		return LoneWolf()
	case "blind":
		return BlindWolf()
	}
	if id, ok := strings.CutPrefix(s, "partner:"); ok {
		s = id
	}
	return PartnerWith(s)
}

func (d WolfDecision) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *WolfDecision) UnmarshalText(text []byte) error {
	*d = ParseWolfDecision(string(text))
	return nil
}

// WolfHole is the input for resolving one hole of a Wolf game.
type WolfHole struct {
	WolfID   string
	OtherIDs [2]string
	Values   map[string]*int // comparable value for each of the three players
	Decision WolfDecision
}

// Wolf payouts.
const (
	blindWolfWin    = 6
	blindWolfLoss   = 2 // to each of the other two
	loneWolfWin     = 3
	loneWolfLoss    = 1 // to each of the other two
	soloTie         = 1 // wolf (lone/blind) or solo player (partner) on a halved hole
	partnerTeamWin  = 1 // to the wolf and to the partner
	partnerSoloWins = 3
)

// ResolveWolfHole awards the points for one hole. IDs that earn nothing are left out of the
// map. If any of the three values is missing, or nothing has been decided, no points are
// awarded. A partner who is not one of the other two players, or a wolf who appears among
// the others, is a programming error and panics.
func ResolveWolfHole(h WolfHole) map[string]int {
	if h.WolfID == h.OtherIDs[0] || h.WolfID == h.OtherIDs[1] || h.OtherIDs[0] == h.OtherIDs[1] {
		panic(fmt.Sprintf("scoring: wolf hole needs three distinct players, got %q and %v", h.WolfID, h.OtherIDs))
	}
	if h.Decision.Kind == WolfPartner && h.Decision.PartnerID != h.OtherIDs[0] && h.Decision.PartnerID != h.OtherIDs[1] {
		panic(fmt.Sprintf("scoring: wolf partner %q is not one of %v", h.Decision.PartnerID, h.OtherIDs))
	}

	wolf, a, b := h.Values[h.WolfID], h.Values[h.OtherIDs[0]], h.Values[h.OtherIDs[1]]
	if wolf == nil || a == nil || b == nil {
		return map[string]int{}
	}

	points := make(map[string]int, 3)
	switch h.Decision.Kind {
	case WolfBlind, WolfLone:
		win, loss := loneWolfWin, loneWolfLoss
		if h.Decision.Kind == WolfBlind {
			win, loss = blindWolfWin, blindWolfLoss
		}
		best := min(*a, *b)
		switch {
		case *wolf < best:
			points[h.WolfID] = win
		case *wolf > best:
			points[h.OtherIDs[0]] = loss
			points[h.OtherIDs[1]] = loss
		default:
			points[h.WolfID] = soloTie
		}

	case WolfPartner:
		partner, solo := h.OtherIDs[0], h.OtherIDs[1]
		if h.Decision.PartnerID == solo {
			partner, solo = solo, partner
		}
		team := min(*wolf, *h.Values[partner])
		switch {
		case team < *h.Values[solo]:
			points[h.WolfID] = partnerTeamWin
			points[partner] = partnerTeamWin
		case team > *h.Values[solo]:
			points[solo] = partnerSoloWins
		default:
			points[solo] = soloTie
		}
	}
	return points
}

// WolfRotation names the default Wolf for a hole: the first player on hole 1, the second on
// hole 2 and so on, wrapping around. It panics unless given exactly three players.
func WolfRotation(playerIDs []string, holeNumber int) string {
	if len(playerIDs) != 3 {
		panic(fmt.Sprintf("scoring: wolf rotation needs 3 players, got %d", len(playerIDs)))
	}
	i := (holeNumber - 1) % 3
	if i < 0 {
		i += 3
	}
	return playerIDs[i]
}
