package blocks_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/testutil"

	"gorm.io/gorm"
)

func setupPage(t *testing.T) (*gorm.DB, *pages.Page) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	page, err := pages.Create(db, 1, "alice", "Alice", "")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return db, page
}

func appendN(t *testing.T, db *gorm.DB, pageID string, n int) []*blocks.Block {
	t.Helper()
	out := make([]*blocks.Block, 0, n)
	for i := 0; i < n; i++ {
		b, err := blocks.Append(db, 1, pageID, blocks.TypeText, json.RawMessage(`{"text":"t"}`))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		out = append(out, b)
	}
	return out
}

func storedOrder(t *testing.T, db *gorm.DB, pageID string) []string {
	t.Helper()
	list, err := blocks.List(db, 1, pageID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make([]string, len(list))
	for i, b := range list {
		if b.Order != i {
			t.Fatalf("orders not dense: block %s at position %d has order %d", b.ID, i, b.Order)
		}
		ids[i] = b.ID
	}
	return ids
}

func TestAppendAssignsSequentialOrders(t *testing.T) {
	db, page := setupPage(t)

	first, err := blocks.Append(db, 1, page.ID, blocks.TypeLink, nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Order != 0 || !first.Visible {
		t.Fatalf("expected first block at order 0 and visible, got %+v", first)
	}
	var link blocks.LinkContent
	if err := json.Unmarshal(first.Content, &link); err != nil || link.URL != "https://" {
		t.Fatalf("expected default link content, got %s (%v)", first.Content, err)
	}

	second, err := blocks.Append(db, 1, page.ID, blocks.TypeDivider, json.RawMessage(`{"style":"dots"}`))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("expected second block at order 1, got %d", second.Order)
	}
}

func TestAppendRejectsInvalidContentWithoutWriting(t *testing.T) {
	db, page := setupPage(t)

	_, err := blocks.Append(db, 1, page.ID, blocks.Type("POLL"), json.RawMessage(`{}`))
	if _, ok := apperr.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = blocks.Append(db, 1, page.ID, blocks.TypeLink, json.RawMessage(`{"label":"no url"}`))
	if _, ok := apperr.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ids := storedOrder(t, db, page.ID); len(ids) != 0 {
		t.Fatalf("expected no stored blocks, got %d", len(ids))
	}
}

func TestForeignPageIsNotFound(t *testing.T) {
	db, page := setupPage(t)
	b := appendN(t, db, page.ID, 1)[0]

	if _, err := blocks.Append(db, 2, page.ID, blocks.TypeText, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on append, got %v", err)
	}
	if err := blocks.Delete(db, 2, page.ID, b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if _, err := blocks.ToggleVisibility(db, 2, page.ID, b.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on toggle, got %v", err)
	}
	if _, err := blocks.Get(db, 1, page.ID, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown block, got %v", err)
	}
}

func TestDeleteCompactsRemainingBlocks(t *testing.T) {
	db, page := setupPage(t)
	created := appendN(t, db, page.ID, 3)

	sink := analytics.DBSink{DB: db}
	if err := sink.Record(context.Background(), analytics.ClickEvent(created[1].ID)); err != nil {
		t.Fatalf("seed click: %v", err)
	}
	if err := blocks.Delete(db, 1, page.ID, created[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ids := storedOrder(t, db, page.ID)
	if len(ids) != 2 || ids[0] != created[0].ID || ids[1] != created[2].ID {
		t.Fatalf("unexpected order after delete: %v", ids)
	}

	var clicks int64
	db.Model(&analytics.BlockClick{}).Where("block_id = ?", created[1].ID).Count(&clicks)
	if clicks != 0 {
		t.Fatalf("expected clicks of deleted block removed, got %d", clicks)
	}
}

func TestReorderAppliesPermutation(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 3)

	err := blocks.Reorder(db, 1, page.ID, []blocks.Position{
		{ID: c[2].ID, Order: 0}, {ID: c[0].ID, Order: 1}, {ID: c[1].ID, Order: 2},
	})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	ids := storedOrder(t, db, page.ID)
	if ids[0] != c[2].ID || ids[1] != c[0].ID || ids[2] != c[1].ID {
		t.Fatalf("unexpected order %v", ids)
	}
}

func TestReorderRejectsNonPermutationAndKeepsOrder(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 3)
	before := storedOrder(t, db, page.ID)

	bad := [][]blocks.Position{
		{{ID: c[0].ID, Order: 1}, {ID: c[1].ID, Order: 0}},
		{{ID: c[0].ID, Order: 0}, {ID: c[1].ID, Order: 0}, {ID: c[2].ID, Order: 2}},
		{{ID: c[0].ID, Order: 2}, {ID: c[1].ID, Order: 1}, {ID: "ghost", Order: 0}},
		{{ID: c[0].ID, Order: 5}, {ID: c[1].ID, Order: 1}, {ID: c[2].ID, Order: 0}},
		{},
	}
	for i, items := range bad {
		err := blocks.Reorder(db, 1, page.ID, items)
		if _, ok := apperr.AsValidation(err); !ok {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
		after := storedOrder(t, db, page.ID)
		for j := range before {
			if before[j] != after[j] {
				t.Fatalf("case %d: stored order changed: %v -> %v", i, before, after)
			}
		}
	}
}

func TestUpdateMovesAndTogglesAtomically(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 4)

	order := 0
	hidden := false
	b, err := blocks.Update(db, 1, page.ID, c[3].ID, blocks.UpdateInput{
		Content: json.RawMessage(`{"text":"moved","align":"right"}`),
		Visible: &hidden,
		Order:   &order,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Order != 0 || b.Visible {
		t.Fatalf("unexpected block after update: %+v", b)
	}
	var text blocks.TextContent
	if err := json.Unmarshal(b.Content, &text); err != nil || text.Text != "moved" {
		t.Fatalf("content not updated: %s", b.Content)
	}
	ids := storedOrder(t, db, page.ID)
	if ids[0] != c[3].ID || ids[1] != c[0].ID || ids[3] != c[2].ID {
		t.Fatalf("unexpected order %v", ids)
	}

	// out of range and empty updates are rejected
	tooFar := 9
	if _, err := blocks.Update(db, 1, page.ID, c[0].ID, blocks.UpdateInput{Order: &tooFar}); err == nil {
		t.Fatalf("expected out of range move to fail")
	}
	if _, err := blocks.Update(db, 1, page.ID, c[0].ID, blocks.UpdateInput{}); err == nil {
		t.Fatalf("expected empty update to fail")
	}
}

func TestToggleVisibilityKeepsOrder(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 2)

	b, err := blocks.ToggleVisibility(db, 1, page.ID, c[1].ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if b.Visible || b.Order != 1 {
		t.Fatalf("unexpected toggle result %+v", b)
	}

	visible, err := blocks.ListVisible(db, page.ID)
	if err != nil {
		t.Fatalf("list visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != c[0].ID {
		t.Fatalf("expected only the first block visible, got %+v", visible)
	}

	b, err = blocks.ToggleVisibility(db, 1, page.ID, c[1].ID)
	if err != nil || !b.Visible {
		t.Fatalf("expected block visible again, got %+v (%v)", b, err)
	}
}

func TestDensityAfterMixedOperations(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 5)

	if err := blocks.Delete(db, 1, page.ID, c[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := blocks.Move(db, 1, page.ID, c[4].ID, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	appendN(t, db, page.ID, 1)
	if err := blocks.Delete(db, 1, page.ID, c[2].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if ids := storedOrder(t, db, page.ID); len(ids) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(ids))
	}
}

func TestSetVisibleAndUpdateContent(t *testing.T) {
	db, page := setupPage(t)
	c := appendN(t, db, page.ID, 2)

	b, err := blocks.SetVisible(db, 1, page.ID, c[0].ID, false)
	if err != nil || b.Visible {
		t.Fatalf("expected hidden block, got %+v (%v)", b, err)
	}
	b, err = blocks.SetVisible(db, 1, page.ID, c[0].ID, false)
	if err != nil || b.Visible || b.Order != 0 {
		t.Fatalf("setting the same visibility should be a no-op, got %+v (%v)", b, err)
	}

	b, err = blocks.UpdateContent(db, 1, page.ID, c[1].ID, json.RawMessage(`{"text":"hello"}`))
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	var text blocks.TextContent
	if err := json.Unmarshal(b.Content, &text); err != nil || text.Text != "hello" {
		t.Fatalf("content not updated: %s", b.Content)
	}

	// content is checked against the block's own type
	_, err = blocks.UpdateContent(db, 1, page.ID, c[1].ID, json.RawMessage(`{"url":"https://example.com"}`))
	if _, ok := apperr.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReorderEmptyPayload(t *testing.T) {
	db, page := setupPage(t)

	if err := blocks.Reorder(db, 1, page.ID, nil); err != nil {
		t.Fatalf("empty reorder on an empty page should succeed: %v", err)
	}

	appendN(t, db, page.ID, 2)
	if err := blocks.Reorder(db, 1, page.ID, nil); err == nil {
		t.Fatalf("expected empty reorder to fail when the page has blocks")
	}
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	db, page := setupPage(t)
	b := appendN(t, db, page.ID, 1)[0]

	if _, err := blocks.List(db, 1, "abc"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for malformed page id, got %v", err)
	}
	if _, err := blocks.Append(db, 1, "abc", blocks.TypeText, nil); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for malformed page id, got %v", err)
	}
	if _, err := blocks.Get(db, 1, page.ID, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for malformed block id, got %v", err)
	}
	if err := blocks.Delete(db, 1, page.ID, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for malformed block id, got %v", err)
	}
	if ids := storedOrder(t, db, page.ID); len(ids) != 1 || ids[0] != b.ID {
		t.Fatalf("expected block untouched, got %v", ids)
	}
}
