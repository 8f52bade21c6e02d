package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PageView struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PageID    string    `gorm:"type:uuid;not null;index:idx_page_views_page_created,priority:1" json:"pageId"`
	VisitorID string    `gorm:"type:varchar(36);not null" json:"visitorId"`
	CreatedAt time.Time `gorm:"not null;index:idx_page_views_page_created,priority:2" json:"createdAt"`
}

type BlockClick struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BlockID   string    `gorm:"type:uuid;not null;index:idx_block_clicks_block_created,priority:1" json:"blockId"`
	VisitorID string    `gorm:"type:varchar(36);not null" json:"visitorId"`
	CreatedAt time.Time `gorm:"not null;index:idx_block_clicks_block_created,priority:2" json:"createdAt"`
}

func (v *PageView) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

func (c *BlockClick) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// NewVisitorID returns an opaque identifier for an anonymous visitor.
func NewVisitorID() string {
	return uuid.NewString()
}
