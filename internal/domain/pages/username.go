package pages

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pulse/internal/domain/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,20}$`)

const (
	MaxDisplayName = 80
	MaxBio         = 500
)

func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Create stores the first and only page of a user. A taken username or a
// second page for the same user is a validation error.
//
// IMPORTANT: pass db in, do NOT import pulse/database here (avoids import cycle).
func Create(db *gorm.DB, userID uint, username, displayName, bio string) (*Page, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return nil, apperr.Invalid("Invalid username format",
			apperr.Field("username", "must match [a-z0-9_-]{3,20}"))
	}
	displayName = strings.TrimSpace(displayName)
	if len([]rune(displayName)) > MaxDisplayName {
		return nil, apperr.Invalid("Invalid request body", apperr.Field("displayName", "must be at most 80 characters"))
	}
	if len([]rune(bio)) > MaxBio {
		return nil, apperr.Invalid("Invalid request body", apperr.Field("bio", "must be at most 500 characters"))
	}

	page := &Page{
		UserID:      userID,
		Username:    username,
		DisplayName: displayName,
		Bio:         bio,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Page{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Invalid("Username already taken", apperr.Field("username", "already taken"))
		}
		if err := tx.Model(&Page{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Invalid("User already has a page")
		}
		return tx.Create(page).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Invalid("Username already taken", apperr.Field("username", "already taken"))
		}
		if _, ok := apperr.AsValidation(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

// ValidID reports whether id can name a stored page or block.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// FindOwned loads a page that belongs to userID. Foreign, missing and
// malformed ids are all ErrNotFound.
func FindOwned(db *gorm.DB, userID uint, pageID string) (*Page, error) {
	if !ValidID(pageID) {
		return nil, apperr.ErrNotFound
	}
	var page Page
	err := db.Where("id = ? AND user_id = ?", pageID, userID).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	return &page, nil
}

// FindPublished looks a page up by username for anonymous visitors.
func FindPublished(db *gorm.DB, username string) (*Page, error) {
	var page Page
	err := db.Where("username = ? AND published = ?", username, true).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load public page: %w", err)
	}
	return &page, nil
}

// FindForUser returns the user's page, or nil when none was created yet.
func FindForUser(db *gorm.DB, userID uint) (*Page, error) {
	var page Page
	err := db.Where("user_id = ?", userID).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user page: %w", err)
	}
	return &page, nil
}
