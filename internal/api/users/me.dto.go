package users

import (
	"time"

	"pulse/internal/domain/access"
)

type MeResponse struct {
	User         UserDTO          `json:"user"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Access       access.Policy    `json:"access"`
	Page         *PageSummaryDTO  `json:"page"`
}

type UserDTO struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Image        *string `json:"image"`
	Role         string  `json:"role"`
	AuthProvider string  `json:"authProvider"`
}

type SubscriptionDTO struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd"`
}

type PageSummaryDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Published bool   `json:"published"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}
