package account

import (
	"errors"
	"fmt"
	"strings"

	"pulse/internal/domain/apperr"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/users"

	"gorm.io/gorm"
)

var errEmailTaken = apperr.Invalid("Email already in use", apperr.Field("email", "Email already in use"))

// Register creates a local account together with its FREE subscription.
func Register(db *gorm.DB, name, email, passwordHash string) (*users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user := users.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Password:     &passwordHash,
		AuthProvider: users.ProviderLocal,
		Role:         "user",
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&users.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		sub := billing.NewFree(user.ID)
		return tx.Create(&sub).Error
	})
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, errEmailTaken
	case errors.Is(err, errEmailTaken):
		return nil, err
	default:
		return nil, fmt.Errorf("register user: %w", err)
	}
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// FindOrCreateGoogle resolves a Google identity to an account: by subject
// first, then by email (linking the subject), else a new account with a
// FREE subscription.
func FindOrCreateGoogle(db *gorm.DB, id GoogleIdentity) (*users.User, error) {
	var user users.User
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_sub = ?", id.Sub).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		email := strings.ToLower(strings.TrimSpace(id.Email))
		err = tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			sub := id.Sub
			return tx.Model(&user).Updates(map[string]any{
				"google_sub":    &sub,
				"auth_provider": users.ProviderGoogle,
			}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		sub := id.Sub
		user = users.User{
			Name:         id.Name,
			Email:        email,
			AuthProvider: users.ProviderGoogle,
			GoogleSub:    &sub,
			Role:         "user",
		}
		if id.Picture != "" {
			pic := id.Picture
			user.Image = &pic
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		free := billing.NewFree(user.ID)
		return tx.Create(&free).Error
	})
	if err != nil {
		return nil, fmt.Errorf("google sign-in: %w", err)
	}
	return &user, nil
}
