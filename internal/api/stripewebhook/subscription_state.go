package stripewebhooks

import (
	"errors"
	"strconv"
	"time"

	"pulse/internal/domain/billing"

	"github.com/stripe/stripe-go/v75"
)

func stateFromSubscription(sub *stripe.Subscription) (billing.StripeState, error) {
	if sub.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return billing.StripeState{}, errors.New("subscription missing id/items/price")
	}
	st := billing.StripeState{
		UserID:         userIDFromMetadata(sub.Metadata),
		SubscriptionID: sub.ID,
		PriceID:        sub.Items.Data[0].Price.ID,
		Status:         string(sub.Status),
	}
	if sub.Customer != nil {
		st.CustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		st.PeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0)
	}
	return st, nil
}

func userIDFromMetadata(md map[string]string) uint {
	if md == nil {
		return 0
	}
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
