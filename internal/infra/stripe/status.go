package stripe

import "strings"

// NormalizeStripeStatus folds provider subscription statuses (any case) into
// the handful of states the plan logic cares about.
func NormalizeStripeStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "none"
	}
	switch v := strings.ToLower(strings.TrimSpace(*s)); v {
	case "active":
		return "active"
	case "trialing":
		return "trialing"
	case "past_due", "unpaid":
		return "past_due"
	case "canceled", "cancelled", "incomplete_expired":
		return "canceled"
	default:
		return v
	}
}
