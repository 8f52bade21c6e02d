package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierFree       = "FREE"
	TierPlus       = "PLUS"
	TierPlusYearly = "PLUS_YEARLY"
)

// Normalize maps stored plan strings onto a known tier. Anything unknown is FREE.
func Normalize(plan string) string {
	switch p := strings.ToUpper(strings.TrimSpace(plan)); p {
	case TierPlus, TierPlusYearly:
		return p
	default:
		return TierFree
	}
}

func IsPlus(plan string) bool {
	return Normalize(plan) != TierFree
}

// PriceTiers maps billing price ids to tiers. Empty ids are ignored.
type PriceTiers map[string]string

func NewPriceTiers(plusPriceID, plusYearlyPriceID string) PriceTiers {
	m := PriceTiers{}
	if id := strings.TrimSpace(plusPriceID); id != "" {
		m[id] = TierPlus
	}
	if id := strings.TrimSpace(plusYearlyPriceID); id != "" {
		m[id] = TierPlusYearly
	}
	return m
}

func (p PriceTiers) TierFor(priceID string) string {
	if tier, ok := p[priceID]; ok {
		return tier
	}
	return TierFree
}
