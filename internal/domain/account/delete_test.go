package account_test

import (
	"context"
	"errors"
	"testing"

	"pulse/internal/domain/account"
	"pulse/internal/domain/analytics"
	"pulse/internal/domain/apperr"
	"pulse/internal/domain/billing"
	"pulse/internal/domain/blocks"
	"pulse/internal/domain/pages"
	"pulse/internal/domain/users"
	"pulse/internal/testutil"

	"gorm.io/gorm"
)

func seedAccount(t *testing.T, db *gorm.DB, email, username string) (users.User, *pages.Page) {
	t.Helper()
	user := users.User{Name: username, Email: email, AuthProvider: users.ProviderLocal, Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	sub := billing.NewFree(user.ID)
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	page, err := pages.Create(db, user.ID, username, "", "")
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	b, err := blocks.Append(db, user.ID, page.ID, blocks.TypeLink, nil)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	sink := analytics.DBSink{DB: db}
	ctx := context.Background()
	if err := sink.Record(ctx, analytics.ViewEvent(page.ID)); err != nil {
		t.Fatalf("record view: %v", err)
	}
	if err := sink.Record(ctx, analytics.ClickEvent(b.ID)); err != nil {
		t.Fatalf("record click: %v", err)
	}
	return user, page
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestDeleteUserRemovesEverythingOwned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, _ := seedAccount(t, db, "alice@example.com", "alice")
	seedAccount(t, db, "bob@example.com", "bob")

	if err := account.DeleteUser(db, alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	checks := []struct {
		name  string
		model any
	}{
		{"users", &users.User{}},
		{"subscriptions", &billing.Subscription{}},
		{"pages", &pages.Page{}},
		{"blocks", &blocks.Block{}},
		{"views", &analytics.PageView{}},
		{"clicks", &analytics.BlockClick{}},
	}
	for _, c := range checks {
		if n := count(t, db, c.model); n != 1 {
			t.Fatalf("%s: expected only the other account's row, got %d", c.name, n)
		}
	}

	if err := account.DeleteUser(db, alice.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDeletePageChecksOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice, page := seedAccount(t, db, "alice@example.com", "alice")

	if err := account.DeletePage(db, alice.ID+1, page.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign page, got %v", err)
	}
	if err := account.DeletePage(db, alice.ID, page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}
	if n := count(t, db, &blocks.Block{}); n != 0 {
		t.Fatalf("expected blocks removed, got %d", n)
	}
	if n := count(t, db, &analytics.BlockClick{}); n != 0 {
		t.Fatalf("expected clicks removed, got %d", n)
	}
	if n := count(t, db, &users.User{}); n != 1 {
		t.Fatalf("user must survive page deletion, got %d", n)
	}
}
