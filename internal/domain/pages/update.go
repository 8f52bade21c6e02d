package pages

import (
	"encoding/json"
	"fmt"
	"strings"

	"pulse/internal/domain/access"
	"pulse/internal/domain/apperr"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UpdateInput carries the optional fields of a page update. Nil means unchanged.
type UpdateInput struct {
	DisplayName *string         `json:"displayName"`
	Bio         *string         `json:"bio"`
	Avatar      *string         `json:"avatar"`
	Theme       json.RawMessage `json:"theme"`
	Published   *bool           `json:"published"`
}

func (in UpdateInput) Empty() bool {
	return in.DisplayName == nil && in.Bio == nil && in.Avatar == nil && len(in.Theme) == 0 && in.Published == nil
}

func Update(db *gorm.DB, userID uint, pageID string, in UpdateInput, policy access.Policy) (*Page, error) {
	if in.Empty() {
		return nil, apperr.Invalid("At least one field must be provided")
	}

	updates := map[string]any{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if len([]rune(name)) > MaxDisplayName {
			return nil, apperr.Invalid("Invalid request body", apperr.Field("displayName", "must be at most 80 characters"))
		}
		updates["display_name"] = name
	}
	if in.Bio != nil {
		if len([]rune(*in.Bio)) > MaxBio {
			return nil, apperr.Invalid("Invalid request body", apperr.Field("bio", "must be at most 500 characters"))
		}
		updates["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if len(in.Theme) > 0 {
		theme, err := ValidateTheme(in.Theme, policy)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(theme)
		if err != nil {
			return nil, fmt.Errorf("encode theme: %w", err)
		}
		updates["theme"] = datatypes.JSON(b)
	}
	if in.Published != nil {
		updates["published"] = *in.Published
	}

	page, err := FindOwned(db, userID, pageID)
	if err != nil {
		return nil, err
	}
	if err := db.Model(page).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return FindOwned(db, userID, pageID)
}
