package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/pages"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/*
	Ordering / visibility controller
	--------------------------------
	- Every mutation runs in one transaction that first locks the owning
	  page row, so concurrent edits of one page are serialized.
	- After each mutation the orders of a page are exactly 0..n-1.
	- A page of another user is reported as not found.
*/

type fieldErr struct{ field, msg string }

func invalidOrder(fields []fieldErr) error {
	out := make([]apperr.FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, apperr.Field(f.field, f.msg))
	}
	return apperr.Invalid("Invalid block order", out...)
}

// UpdateInput is a partial block update. Nil fields are left unchanged.
type UpdateInput struct {
	Content json.RawMessage `json:"content"`
	Visible *bool           `json:"visible"`
	Order   *int            `json:"order"`
}

func (in UpdateInput) Empty() bool {
	return len(in.Content) == 0 && in.Visible == nil && in.Order == nil
}

func List(db *gorm.DB, userID uint, pageID string) ([]Block, error) {
	if _, err := pages.FindOwned(db, userID, pageID); err != nil {
		return nil, err
	}
	return listPage(db, pageID)
}

// ListVisible returns the blocks a visitor sees, in order.
func ListVisible(db *gorm.DB, pageID string) ([]Block, error) {
	var list []Block
	if err := db.Where("page_id = ? AND visible = ?", pageID, true).
		Order("sort_index asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list visible blocks: %w", err)
	}
	return list, nil
}

func Get(db *gorm.DB, userID uint, pageID, blockID string) (*Block, error) {
	if _, err := pages.FindOwned(db, userID, pageID); err != nil {
		return nil, err
	}
	return findInPage(db, pageID, blockID)
}

// Append adds a block at the end of the page. Empty content means the
// default content of the type.
func Append(db *gorm.DB, userID uint, pageID string, t Type, raw json.RawMessage) (*Block, error) {
	if _, ok := ParseType(string(t)); !ok {
		return nil, apperr.Invalid("unsupported block type", apperr.Field("type", fmt.Sprintf("unsupported block type %q", t)))
	}
	var content Content
	if len(raw) == 0 || isNull(raw) {
		content = DefaultContent(t)
	} else {
		c, err := DecodeContent(t, raw)
		if err != nil {
			return nil, err
		}
		content = c
	}
	encoded, err := Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encode block content: %w", err)
	}

	block := &Block{PageID: pageID, Type: t, Content: datatypes.JSON(encoded), Visible: true}
	err = withPage(db, userID, pageID, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Block{}).Where("page_id = ?", pageID).Count(&n).Error; err != nil {
			return err
		}
		block.Order = int(n)
		return tx.Create(block).Error
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// Reorder applies a full permutation. Anything else is rejected and nothing is written.
func Reorder(db *gorm.DB, userID uint, pageID string, items []Position) error {
	return withPage(db, userID, pageID, func(tx *gorm.DB) error {
		current, err := listPage(tx, pageID)
		if err != nil {
			return err
		}
		ids := make([]string, len(current))
		for i, b := range current {
			ids[i] = b.ID
		}
		if err := ValidatePermutation(ids, items); err != nil {
			return err
		}

		want := make(map[string]int, len(items))
		for _, it := range items {
			want[it.ID] = it.Order
		}
		for _, b := range current {
			if b.Order == want[b.ID] {
				continue
			}
			if err := setOrder(tx, b.ID, want[b.ID]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Move places one block at order and shifts the others to keep the sequence dense.
func Move(db *gorm.DB, userID uint, pageID, blockID string, order int) (*Block, error) {
	var out *Block
	err := withPage(db, userID, pageID, func(tx *gorm.DB) error {
		b, err := moveLocked(tx, pageID, blockID, order)
		out = b
		return err
	})
	return out, err
}

// Delete removes a block with its click history and closes the gap it leaves.
func Delete(db *gorm.DB, userID uint, pageID, blockID string) error {
	return withPage(db, userID, pageID, func(tx *gorm.DB) error {
		if _, err := findInPage(tx, pageID, blockID); err != nil {
			return err
		}
		if err := tx.Where("block_id = ?", blockID).Delete(&analytics.BlockClick{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ? AND page_id = ?", blockID, pageID).Delete(&Block{}).Error; err != nil {
			return err
		}
		return compactLocked(tx, pageID)
	})
}

func ToggleVisibility(db *gorm.DB, userID uint, pageID, blockID string) (*Block, error) {
	var out *Block
	err := withPage(db, userID, pageID, func(tx *gorm.DB) error {
		b, err := findInPage(tx, pageID, blockID)
		if err != nil {
			return err
		}
		b, err = setVisibleLocked(tx, b, !b.Visible)
		out = b
		return err
	})
	return out, err
}

func SetVisible(db *gorm.DB, userID uint, pageID, blockID string, visible bool) (*Block, error) {
	var out *Block
	err := withPage(db, userID, pageID, func(tx *gorm.DB) error {
		b, err := findInPage(tx, pageID, blockID)
		if err != nil {
			return err
		}
		b, err = setVisibleLocked(tx, b, visible)
		out = b
		return err
	})
	return out, err
}

// UpdateContent replaces the content after validating it against the block's own type.
func UpdateContent(db *gorm.DB, userID uint, pageID, blockID string, raw json.RawMessage) (*Block, error) {
	var out *Block
	err := withPage(db, userID, pageID, func(tx *gorm.DB) error {
		b, err := findInPage(tx, pageID, blockID)
		if err != nil {
			return err
		}
		b, err = setContentLocked(tx, b, raw)
		out = b
		return err
	})
	return out, err
}

// Update applies content, visibility and order changes of one PATCH request atomically.
func Update(db *gorm.DB, userID uint, pageID, blockID string, in UpdateInput) (*Block, error) {
	if in.Empty() {
		return nil, apperr.Invalid("At least one field must be provided")
	}
	if in.Order != nil && *in.Order < 0 {
		return nil, apperr.Invalid("Invalid block order", apperr.Field("order", "must be zero or greater"))
	}

	var out *Block
	err := withPage(db, userID, pageID, func(tx *gorm.DB) error {
		b, err := findInPage(tx, pageID, blockID)
		if err != nil {
			return err
		}
		if len(in.Content) > 0 {
			if b, err = setContentLocked(tx, b, in.Content); err != nil {
				return err
			}
		}
		if in.Visible != nil && *in.Visible != b.Visible {
			if b, err = setVisibleLocked(tx, b, *in.Visible); err != nil {
				return err
			}
		}
		if in.Order != nil && *in.Order != b.Order {
			if b, err = moveLocked(tx, pageID, blockID, *in.Order); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	return out, err
}

// withPage runs fn in a transaction holding the page row, then marks the page updated.
func withPage(db *gorm.DB, userID uint, pageID string, fn func(tx *gorm.DB) error) error {
	if !pages.ValidID(pageID) {
		return apperr.ErrNotFound
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&pages.Page{}).Select("id").Where("id = ? AND user_id = ?", pageID, userID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var page pages.Page
		if err := q.Take(&page).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Model(&pages.Page{}).Where("id = ?", pageID).Update("updated_at", time.Now()).Error
	})
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if _, ok := apperr.AsValidation(err); ok {
		return err
	}
	return fmt.Errorf("block mutation: %w", err)
}

func listPage(db *gorm.DB, pageID string) ([]Block, error) {
	var list []Block
	if err := db.Where("page_id = ?", pageID).Order("sort_index asc").Order("created_at asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return list, nil
}

func findInPage(db *gorm.DB, pageID, blockID string) (*Block, error) {
	if !pages.ValidID(blockID) {
		return nil, apperr.ErrNotFound
	}
	var b Block
	err := db.Where("id = ? AND page_id = ?", blockID, pageID).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load block: %w", err)
	}
	return &b, nil
}

func setOrder(tx *gorm.DB, blockID string, order int) error {
	return tx.Model(&Block{}).Where("id = ?", blockID).Update("sort_index", order).Error
}

func compactLocked(tx *gorm.DB, pageID string) error {
	current, err := listPage(tx, pageID)
	if err != nil {
		return err
	}
	for i, b := range Compact(current) {
		if current[i].ID == b.ID && current[i].Order == b.Order {
			continue
		}
		if err := setOrder(tx, b.ID, b.Order); err != nil {
			return err
		}
	}
	return nil
}

func moveLocked(tx *gorm.DB, pageID, blockID string, order int) (*Block, error) {
	current, err := listPage(tx, pageID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(current))
	orders := make(map[string]int, len(current))
	found := false
	for _, b := range current {
		ids = append(ids, b.ID)
		orders[b.ID] = b.Order
		found = found || b.ID == blockID
	}
	if !found {
		return nil, apperr.ErrNotFound
	}
	if order < 0 || order >= len(ids) {
		return nil, apperr.Invalid("Invalid block order",
			apperr.Field("order", fmt.Sprintf("must be between 0 and %d", len(ids)-1)))
	}

	for i, id := range MoveTo(ids, blockID, order) {
		if orders[id] == i {
			continue
		}
		if err := setOrder(tx, id, i); err != nil {
			return nil, err
		}
	}
	return findInPage(tx, pageID, blockID)
}

func setVisibleLocked(tx *gorm.DB, b *Block, visible bool) (*Block, error) {
	if err := tx.Model(&Block{}).Where("id = ?", b.ID).Update("visible", visible).Error; err != nil {
		return nil, err
	}
	b.Visible = visible
	return b, nil
}

func setContentLocked(tx *gorm.DB, b *Block, raw json.RawMessage) (*Block, error) {
	content, err := DecodeContent(b.Type, raw)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(content)
	if err != nil {
		return nil, fmt.Errorf("encode block content: %w", err)
	}
	if err := tx.Model(&Block{}).Where("id = ?", b.ID).Update("content", datatypes.JSON(encoded)).Error; err != nil {
		return nil, err
	}
	b.Content = datatypes.JSON(encoded)
	return b, nil
}
