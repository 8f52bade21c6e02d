package access

import (
	"errors"
	"fmt"
	"time"

	"pulse/internal/domain/billing"

	"gorm.io/gorm"
)

// LoadPolicy reads the user's subscription and computes what they may use.
// Accounts without a subscription row get the free policy.
func LoadPolicy(db *gorm.DB, userID uint) (Policy, error) {
	var sub billing.Subscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ComputePolicy(time.Now(), nil), nil
	}
	if err != nil {
		return Policy{}, fmt.Errorf("load subscription: %w", err)
	}
	return ComputePolicy(time.Now(), &sub), nil
}
