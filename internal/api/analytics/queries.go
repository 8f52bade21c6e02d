package analyticsapi

import (
	"time"

	"pulse/internal/domain/analytics"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type clickRow struct {
	BlockID   string
	Type      blocks.Type
	Content   datatypes.JSON
	CreatedAt time.Time
}

func viewTimes(db *gorm.DB, pageID string, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := db.Model(&analytics.PageView{}).
		Where("page_id = ? AND created_at >= ?", pageID, since).
		Order("created_at asc").
		Pluck("created_at", &out).Error
	return out, err
}

func pageClicks(db *gorm.DB, pageID string, since time.Time) ([]clickRow, error) {
	var rows []clickRow
	err := db.Model(&analytics.BlockClick{}).
		Select("block_clicks.block_id, blocks.type, blocks.content, block_clicks.created_at").
		Joins("JOIN blocks ON blocks.id = block_clicks.block_id").
		Where("blocks.page_id = ? AND block_clicks.created_at >= ?", pageID, since).
		Order("block_clicks.created_at asc").
		Scan(&rows).Error
	return rows, err
}

func blockExists(db *gorm.DB, blockID string) (bool, error) {
	if !pages.ValidID(blockID) {
		return false, nil
	}
	var n int64
	err := db.Model(&blocks.Block{}).Where("id = ?", blockID).Count(&n).Error
	return n > 0, err
}
