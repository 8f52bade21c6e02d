package users

import (
	"pulse/internal/domain/billing"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Image:        u.Image,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
	}
}

func BuildSubscriptionDTO(s *billing.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		Plan:             s.Plan,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

func BuildPageSummaryDTO(p *pages.Page) *PageSummaryDTO {
	if p == nil {
		return nil
	}
	return &PageSummaryDTO{ID: p.ID, Username: p.Username, Published: p.Published}
}
