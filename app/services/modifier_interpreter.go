package services

import (
	"strings"

	"PosInventory/app/models"
)

// MultiplierSettings carries the per-location modifier multiplier overrides.
// A zero field falls back to the hardcoded default ("truthy or default"):
// a location cannot configure a multiplier of exactly zero.
type MultiplierSettings struct {
	Lite   float64
	Extra  float64
	Triple float64
}

// MultiplierSettingsFrom extracts the override values from location settings;
// a nil settings row yields all defaults.
func MultiplierSettingsFrom(s *models.LocationSettings) MultiplierSettings {
	if s == nil {
		return MultiplierSettings{}
	}
	return MultiplierSettings{
		Lite:   s.LiteMultiplier,
		Extra:  s.ExtraMultiplier,
		Triple: s.TripleMultiplier,
	}
}

// removalInstructions suppress an ingredient entirely, not just scale it
var removalInstructions = map[string]bool{
	"NO":      true,
	"NONE":    true,
	"REMOVE":  true,
	"WITHOUT": true,
	"HOLD":    true,
}

var liteInstructions = map[string]bool{
	"LITE":  true,
	"LIGHT": true,
	"EASY":  true,
	"HALF":  true,
}

var extraInstructions = map[string]bool{
	"EXTRA":  true,
	"DOUBLE": true,
	"HEAVY":  true,
}

var tripleInstructions = map[string]bool{
	"TRIPLE": true,
	"3X":     true,
}

func normalizeInstruction(instruction string) string {
	return strings.ToUpper(strings.TrimSpace(instruction))
}

// IsRemoval reports whether an instruction means the target ingredient is
// excluded outright. Removal also suppresses the base-recipe ingredient,
// which a plain zero multiplier would not.
func IsRemoval(instruction string) bool {
	return removalInstructions[normalizeInstruction(instruction)]
}

// MultiplierFor maps a free-text modifier instruction to a quantity
// multiplier. Unrecognized or empty instructions mean the standard amount.
func MultiplierFor(instruction string, settings MultiplierSettings) float64 {
	norm := normalizeInstruction(instruction)
	switch {
	case removalInstructions[norm]:
		return 0
	case liteInstructions[norm]:
		if settings.Lite != 0 {
			return settings.Lite
		}
		return models.DefaultLiteMultiplier
	case extraInstructions[norm]:
		if settings.Extra != 0 {
			return settings.Extra
		}
		return models.DefaultExtraMultiplier
	case tripleInstructions[norm]:
		if settings.Triple != 0 {
			return settings.Triple
		}
		return models.DefaultTripleMultiplier
	default:
		return 1.0
	}
}
