package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/golf-scoring/internal/scoring"
)

// FormatInfo describes one canonical format for clients building a format picker.
type FormatInfo struct {
	Code       scoring.FormatCode `json:"code"`
	Comparable string             `json:"compares"`    // "gross" or "net"
	Grouping   string             `json:"grouping"`    // "solo", "team-best-ball" or "wolf-triad"
	MinPlayers int                `json:"min_players"` // 0 when unbounded
	MaxPlayers int                `json:"max_players"`
	Aliases    []string           `json:"aliases"`
}

// GetFormats handles GET /api/v1/formats.
func GetFormats(engine *scoring.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aliases := engine.Formats().Aliases()
		out := make([]FormatInfo, 0, len(aliases))
		for _, code := range scoring.AllFormats() {
			rules := scoring.RulesFor(code)
			names := aliases[code]
			if names == nil {
				names = []string{}
			}
			out = append(out, FormatInfo{
				Code:       code,
				Comparable: rules.Comparable.String(),
				Grouping:   rules.Grouping.Name(),
				MinPlayers: rules.MinField,
				MaxPlayers: rules.MaxField,
				Aliases:    names,
			})
		}
		return c.JSON(out)
	}
}
