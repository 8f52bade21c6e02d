package pages

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Page struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID   uint   `gorm:"not null;uniqueIndex:idx_pages_user_id" json:"userId"`
	Username string `gorm:"type:varchar(20);not null;uniqueIndex:idx_pages_username" json:"username"`

	DisplayName string  `gorm:"type:varchar(80);not null;default:''" json:"displayName"`
	Bio         string  `gorm:"type:varchar(500);not null;default:''" json:"bio"`
	Avatar      *string `json:"avatar"`

	// Theme is stored as-is; it is only interpreted through ResolveTheme.
	Theme     datatypes.JSON `gorm:"not null;default:'{}'" json:"theme"`
	Published bool           `gorm:"not null;default:false" json:"published"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Page) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Theme) == 0 {
		p.Theme = datatypes.JSON(`{}`)
	}
	return nil
}
