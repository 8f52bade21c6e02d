// Package account removes a user's data. Deletions run in one transaction
// and remove dependent rows explicitly, children first.
package account

import (
	"errors"
	"fmt"

	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/users"

	"gorm.io/gorm"
)

// DeletePage removes an owned page with its blocks, views and clicks.
func DeletePage(db *gorm.DB, userID uint, pageID string) error {
	if !pages.ValidID(pageID) {
		return apperr.ErrNotFound
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var page pages.Page
		if err := tx.Where("id = ? AND user_id = ?", pageID, userID).Take(&page).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		return deletePages(tx, []string{page.ID})
	})
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("delete page: %w", err)
	}
	return err
}

// DeleteUser removes clicks, views, blocks, pages, subscription and the user
// itself. Either everything is gone or nothing is.
func DeleteUser(db *gorm.DB, userID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var user users.User
		if err := tx.Select("id").Take(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		var pageIDs []string
		if err := tx.Model(&pages.Page{}).Where("user_id = ?", userID).Pluck("id", &pageIDs).Error; err != nil {
			return err
		}
		if err := deletePages(tx, pageIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&billing.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&users.User{}, userID).Error
	})
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("delete account: %w", err)
	}
	return err
}

func deletePages(tx *gorm.DB, pageIDs []string) error {
	if len(pageIDs) == 0 {
		return nil
	}
	blockIDs := tx.Model(&blocks.Block{}).Select("id").Where("page_id IN ?", pageIDs)

	if err := tx.Where("block_id IN (?)", blockIDs).Delete(&analytics.BlockClick{}).Error; err != nil {
		return err
	}
	if err := tx.Where("page_id IN ?", pageIDs).Delete(&analytics.PageView{}).Error; err != nil {
		return err
	}
	if err := tx.Where("page_id IN ?", pageIDs).Delete(&blocks.Block{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", pageIDs).Delete(&pages.Page{}).Error
}
