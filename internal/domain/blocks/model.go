package blocks

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Block struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	PageID string `gorm:"type:uuid;not null;index:idx_blocks_page_sort,priority:1" json:"pageId"`
	Order  int    `gorm:"column:sort_index;not null;default:0;index:idx_blocks_page_sort,priority:2" json:"order"`

	Type    Type           `gorm:"type:varchar(20);not null" json:"type"`
	Content datatypes.JSON `gorm:"not null;default:'{}'" json:"content"`
	Visible bool           `gorm:"not null;default:true" json:"visible"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Block) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Decode interprets the stored content against the block's type.
func (b Block) Decode() (Content, error) {
	return DecodeContent(b.Type, []byte(b.Content))
}
