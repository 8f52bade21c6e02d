package billing

import (
	"time"

	"pulse/internal/domain/plans"
)

type Subscription struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_subscriptions_user_id" json:"-"`

	Plan   string `gorm:"type:varchar(20);not null;default:'FREE'" json:"plan"`
	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	StripeCustomerID     *string    `gorm:"column:stripe_customer_id" json:"-"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_subscriptions_stripe_id" json:"-"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFree is the subscription every account starts with.
func NewFree(userID uint) Subscription {
	return Subscription{UserID: userID, Plan: plans.TierFree, Status: "ACTIVE"}
}
