package access

import "pulse/internal/domain/plans"

const (
	CapCustomColors   = "custom_colors"
	CapPremiumPresets = "premium_presets"
	CapHideWatermark  = "hide_watermark"
)

func CapabilitiesFor(plan string) []string {
	if !plans.IsPlus(plan) {
		return []string{}
	}
	return []string{CapCustomColors, CapPremiumPresets, CapHideWatermark}
}

func Has(caps []string, cap string) bool {
	for _, c := range caps {
		if c == cap {
			return true
		}
	}
	return false
}
