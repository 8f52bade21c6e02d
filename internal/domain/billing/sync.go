package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pulse/internal/domain/plans"

	"gorm.io/gorm"
)

// StripeState is what a subscription webhook tells us about one customer.
type StripeState struct {
	UserID         uint
	CustomerID     string
	SubscriptionID string
	PriceID        string
	Status         string
	PeriodEnd      time.Time
}

// ErrNoSubscription means no local row matches the webhook; the event is
// acknowledged and dropped.
var ErrNoSubscription = errors.New("no matching subscription")

// ApplyStripeState stores the provider's view of a subscription. The row is
// found by user id from metadata, then by subscription id, then by customer id.
func ApplyStripeState(db *gorm.DB, tiers plans.PriceTiers, st StripeState) (*Subscription, error) {
	var sub Subscription
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := findForStripe(tx, st, &sub); err != nil {
			return err
		}
		updates := map[string]any{
			"plan":   tiers.TierFor(st.PriceID),
			"status": strings.ToUpper(strings.TrimSpace(st.Status)),
		}
		if st.SubscriptionID != "" {
			updates["stripe_subscription_id"] = st.SubscriptionID
		}
		if st.CustomerID != "" {
			updates["stripe_customer_id"] = st.CustomerID
		}
		if !st.PeriodEnd.IsZero() {
			updates["current_period_end"] = st.PeriodEnd
		}
		if err := tx.Model(&sub).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&sub, sub.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrNoSubscription) {
			return nil, err
		}
		return nil, fmt.Errorf("apply stripe state: %w", err)
	}
	return &sub, nil
}

func findForStripe(tx *gorm.DB, st StripeState, sub *Subscription) error {
	lookups := []struct {
		ok    bool
		query string
		arg   any
	}{
		{st.UserID != 0, "user_id = ?", st.UserID},
		{st.SubscriptionID != "", "stripe_subscription_id = ?", st.SubscriptionID},
		{st.CustomerID != "", "stripe_customer_id = ?", st.CustomerID},
	}
	for _, l := range lookups {
		if !l.ok {
			continue
		}
		err := tx.Where(l.query, l.arg).First(sub).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return ErrNoSubscription
}
