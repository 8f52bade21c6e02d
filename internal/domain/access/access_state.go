package access

import (
	"time"

	"pulse/internal/domain/billing"
	"pulse/internal/domain/plans"
	"pulse/internal/infra/stripe"
)

// EffectivePlan is the tier the account may use right now. A paid tier only
// counts while the billing status is active or trialing, or canceled but
// still inside the paid-through period.
func EffectivePlan(now time.Time, sub *billing.Subscription) string {
	if sub == nil {
		return plans.TierFree
	}
	tier := plans.Normalize(sub.Plan)
	if tier == plans.TierFree {
		return plans.TierFree
	}

	status := sub.Status
	switch stripe.NormalizeStripeStatus(&status) {
	case "active", "trialing":
		return tier
	case "canceled":
		if sub.CurrentPeriodEnd != nil && now.Before(*sub.CurrentPeriodEnd) {
			return tier
		}
		return plans.TierFree
	default:
		return plans.TierFree
	}
}
