package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	"github.com/okhotnikdev/mediagate/internal/shared/database"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSQLiteStorage(db)
}

func testRule(owner int64, source string) *domain.Rule {
	return &domain.Rule{
		OwnerID:        owner,
		Source:         source,
		SortMode:       domain.SortModeHot,
		TimeWindow:     domain.TimeWindowDay,
		FrequencyHours: 4,
		TargetChannel:  "@forwarded",
	}
}

func TestUpsertCreatesThenOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, testRule(10, "pics"))
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.ID == 0 {
		t.Fatal("Upsert() returned rule with zero ID")
	}

	if err := repo.TouchChecked(ctx, first.ID, time.Now()); err != nil {
		t.Fatalf("TouchChecked() error = %v", err)
	}

	update := testRule(10, "pics")
	update.FrequencyHours = 12
	update.TimeWindow = domain.TimeWindowWeek

	second, err := repo.Upsert(ctx, update)
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second Upsert() ID = %d, want %d (same rule)", second.ID, first.ID)
	}

	stored, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.FrequencyHours != 12 {
		t.Errorf("FrequencyHours = %d, want 12", stored.FrequencyHours)
	}
	if stored.TimeWindow != domain.TimeWindowWeek {
		t.Errorf("TimeWindow = %q, want %q", stored.TimeWindow, domain.TimeWindowWeek)
	}
	if !stored.LastCheckedAt.IsZero() {
		t.Error("LastCheckedAt not reset by upsert, want zero (due immediately)")
	}

	rules, err := repo.ListForOwner(ctx, 10)
	if err != nil {
		t.Fatalf("ListForOwner() error = %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("got %d rules after duplicate upsert, want 1", len(rules))
	}
}

func TestUpsertDistinguishesTargets(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, testRule(10, "pics")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	other := testRule(10, "pics")
	other.TargetChannel = "@elsewhere"
	if _, err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rules, err := repo.ListForOwner(ctx, 10)
	if err != nil {
		t.Fatalf("ListForOwner() error = %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("got %d rules for distinct targets, want 2", len(rules))
	}
}

func TestListActiveOrdersByCreation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, source := range []string{"first", "second", "third"} {
		if _, err := repo.Upsert(ctx, testRule(10, source)); err != nil {
			t.Fatalf("Upsert(%q) error = %v", source, err)
		}
	}

	rules, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("got %d active rules, want 3", len(rules))
	}
	for i, want := range []string{"first", "second", "third"} {
		if rules[i].Source != want {
			t.Errorf("rules[%d].Source = %q, want %q", i, rules[i].Source, want)
		}
	}
}

func TestTouchCheckedRecordsTime(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rule, err := repo.Upsert(ctx, testRule(10, "pics"))
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	checkedAt := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	if err := repo.TouchChecked(ctx, rule.ID, checkedAt); err != nil {
		t.Fatalf("TouchChecked() error = %v", err)
	}

	stored, err := repo.Get(ctx, rule.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.LastCheckedAt.IsZero() {
		t.Fatal("LastCheckedAt still zero after TouchChecked()")
	}
	if !stored.LastCheckedAt.Equal(checkedAt) {
		t.Errorf("LastCheckedAt = %v, want %v", stored.LastCheckedAt, checkedAt)
	}
}

func TestDeleteChecksOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rule, err := repo.Upsert(ctx, testRule(10, "pics"))
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.Delete(ctx, rule.ID, 99); !errors.Is(err, sharederrors.ErrRuleNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrRuleNotFound", err)
	}

	if err := repo.Delete(ctx, rule.ID, 10); err != nil {
		t.Fatalf("Delete() by owner error = %v", err)
	}

	if _, err := repo.Get(ctx, rule.ID); !errors.Is(err, sharederrors.ErrRuleNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrRuleNotFound", err)
	}
}
