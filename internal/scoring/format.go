package scoring

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FormatCode is the canonical name of a competition format.
type FormatCode string

const (
	FormatStableford           FormatCode = "stableford"
	FormatMatchPlayHandicap1v1 FormatCode = "match-play-handicap-1v1"
	FormatMatchPlayGross1v1    FormatCode = "match-play-gross-1v1"
	FormatMatchPlayHandicap2v2 FormatCode = "match-play-handicap-2v2"
	FormatMatchPlayGross2v2    FormatCode = "match-play-gross-2v2"
	FormatAmericanGross        FormatCode = "american-gross"
	FormatAmericanNet          FormatCode = "american-net"
	FormatWolfGross            FormatCode = "wolf-gross"
	FormatWolfHandicap         FormatCode = "wolf-handicap"
	FormatStrokePlay           FormatCode = "stroke-play"
	FormatScorecardOnly        FormatCode = "scorecard-only"
)

// defaultAliases maps normalized free-text names to canonical codes. Canonical codes map
// to themselves implicitly, so only the extra spellings are listed.
var defaultAliases = map[string]FormatCode{
	"stableford-points": FormatStableford,
	"points":            FormatStableford,

	"match":                  FormatMatchPlayHandicap1v1,
	"matchplay":              FormatMatchPlayHandicap1v1,
	"match-play":             FormatMatchPlayHandicap1v1,
	"match-play-handicap":    FormatMatchPlayHandicap1v1,
	"match-play-net":         FormatMatchPlayHandicap1v1,
	"handicap-match-play":    FormatMatchPlayHandicap1v1,
	"match-play-gross":       FormatMatchPlayGross1v1,
	"gross-match-play":       FormatMatchPlayGross1v1,
	"match-play-2v2":         FormatMatchPlayHandicap2v2,
	"best-ball":              FormatMatchPlayHandicap2v2,
	"fourball":               FormatMatchPlayHandicap2v2,
	"four-ball":              FormatMatchPlayHandicap2v2,
	"best-ball-gross":        FormatMatchPlayGross2v2,
	"gross-best-ball":        FormatMatchPlayGross2v2,
	"match-play-gross-teams": FormatMatchPlayGross2v2,

	"american":          FormatAmericanGross,
	"american-scoring":  FormatAmericanGross,
	"american-handicap": FormatAmericanNet,
	"nines":             FormatAmericanGross,

	"wolf":     FormatWolfGross,
	"wolf-net": FormatWolfHandicap,

	"stroke":     FormatStrokePlay,
	"strokeplay": FormatStrokePlay,
	"medal":      FormatStrokePlay,

	"scorecard": FormatScorecardOnly,
	"none":      FormatScorecardOnly,
}

// AllFormats lists every canonical code.
func AllFormats() []FormatCode {
	return []FormatCode{
		FormatStableford,
		FormatMatchPlayHandicap1v1,
		FormatMatchPlayGross1v1,
		FormatMatchPlayHandicap2v2,
		FormatMatchPlayGross2v2,
		FormatAmericanGross,
		FormatAmericanNet,
		FormatWolfGross,
		FormatWolfHandicap,
		FormatStrokePlay,
		FormatScorecardOnly,
	}
}

// KnownFormat reports whether code is one of the canonical codes.
func KnownFormat(code FormatCode) bool {
	return slices.Contains(AllFormats(), code)
}

// FormatRegistry resolves free-text format names to canonical codes. It is read-only after
// construction and safe to share between goroutines.
type FormatRegistry struct {
	aliases map[string]FormatCode
}

// NewFormatRegistry builds a registry from the built-in aliases plus extra ones (typically
// loaded from configuration). Extra aliases win over built-in ones. An alias pointing at an
// unknown code is rejected.
func NewFormatRegistry(extra map[string]FormatCode) (*FormatRegistry, error) {
	aliases := maps.Clone(defaultAliases)
	for alias, code := range extra {
		if !KnownFormat(code) {
			return nil, fmt.Errorf("alias %q points at unknown format %q", alias, code)
		}
		key := normalizeKey(alias)
		if key == "" {
			return nil, fmt.Errorf("alias for %q is empty", code)
		}
		aliases[key] = code
	}
	return &FormatRegistry{aliases: aliases}, nil
}

// DefaultFormats is the registry with only the built-in aliases.
var DefaultFormats = &FormatRegistry{aliases: defaultAliases}

// Lookup resolves a raw name. ok is false when the name is not recognised.
func (r *FormatRegistry) Lookup(raw string) (FormatCode, bool) {
	key := normalizeKey(raw)
	if code := FormatCode(key); KnownFormat(code) {
		return code, true
	}
	code, ok := r.aliases[key]
	return code, ok
}

// Normalize resolves a raw name, falling back to scorecard-only for anything unknown.
func (r *FormatRegistry) Normalize(raw string) FormatCode {
	if code, ok := r.Lookup(raw); ok {
		return code
	}
	return FormatScorecardOnly
}

// Aliases returns the sorted aliases for every canonical code.
func (r *FormatRegistry) Aliases() map[FormatCode][]string {
	out := make(map[FormatCode][]string, len(AllFormats()))
	for _, code := range AllFormats() {
		out[code] = nil
	}
	for alias, code := range r.aliases {
		out[code] = append(out[code], alias)
	}
	for code := range out {
		slices.Sort(out[code])
	}
	return out
}

// NormalizeFormat resolves a raw name with the built-in aliases.
func NormalizeFormat(raw string) FormatCode {
	return DefaultFormats.Normalize(raw)
}

// normalizeKey lowercases and trims a name and folds runs of spaces, underscores and
// hyphens into a single hyphen, so "Match Play", "match_play" and "match-play" agree.
func normalizeKey(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "-")
}
