package domain

import (
	"fmt"
	"strings"
)

// RoomTier is the normalized room size class used as a catalog tier code.
// Room types arrive as free text from the resident directory; every input
// maps to exactly one tier, with the shared 4-bed room as the conservative
// default.
type RoomTier string

const (
	Tier1Bed RoomTier = "1-bed"
	Tier2Bed RoomTier = "2-bed"
	Tier3Bed RoomTier = "3-bed"
	Tier4Bed RoomTier = "4-bed"
)

// MealTierStandard is the designated tier code for the default meal plan.
const MealTierStandard = "standard"

// NormalizeRoomTier maps free-text room descriptions to a RoomTier. The
// mapping is total: unknown text resolves to the 4-bed tier.
func NormalizeRoomTier(roomType string) RoomTier {
	normalized := strings.ToLower(strings.TrimSpace(roomType))
	switch {
	case strings.Contains(normalized, "1"), strings.Contains(normalized, "riêng"):
		return Tier1Bed
	case strings.Contains(normalized, "2"):
		return Tier2Bed
	case strings.Contains(normalized, "3"):
		return Tier3Bed
	default:
		return Tier4Bed
	}
}

// CareTierCode builds the composite tier code for a care fee lookup,
// e.g. care level 2 in a 2-bed room yields "CL2_2-bed".
func CareTierCode(careLevel int, tier RoomTier) string {
	return fmt.Sprintf("CL%d_%s", careLevel, tier)
}
