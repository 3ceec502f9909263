package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/item/domain"
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

func testItem(id string) *domain.Item {
	return &domain.Item{
		ID:        id,
		Source:    "earthporn",
		Title:     "Sunrise over the ridge",
		URL:       "https://i.example.com/abc.jpg",
		Author:    "hiker42",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Permalink: "https://example.com/r/earthporn/comments/" + id,
		MediaKind: domain.MediaKindImage,
		FilePath:  "/tmp/media/" + id + ".jpg",
	}
}

func TestRegisterFirstWins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inserted, err := repo.Register(ctx, testItem("t3_aaa"))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !inserted {
		t.Error("first Register() = false, want true")
	}

	inserted, err = repo.Register(ctx, testItem("t3_aaa"))
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}
	if inserted {
		t.Error("second Register() = true, want false")
	}

	exists, err := repo.Exists(ctx, "t3_aaa")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after registration, want true")
	}
}

func TestRegisterConcurrentInsertsOnce(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const workers = 8
	results := make(chan bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.Register(ctx, testItem("t3_race"))
			if err != nil {
				t.Errorf("Register() error = %v", err)
				return
			}
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	insertedCount := 0
	for inserted := range results {
		if inserted {
			insertedCount++
		}
	}
	if insertedCount != 1 {
		t.Errorf("got %d winning registrations, want exactly 1", insertedCount)
	}
}

func TestGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := testItem("t3_bbb")
	if _, err := repo.Register(ctx, want); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := repo.Get(ctx, "t3_bbb")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Source != want.Source || got.Title != want.Title || got.URL != want.URL {
		t.Errorf("Get() = %+v, want fields of %+v", got, want)
	}
	if got.MediaKind != domain.MediaKindImage {
		t.Errorf("Get().MediaKind = %q, want %q", got.MediaKind, domain.MediaKindImage)
	}
	if got.Status != domain.ItemStatusPending {
		t.Errorf("Get().Status = %q, want %q", got.Status, domain.ItemStatusPending)
	}
	if got.DiscoveredAt.IsZero() {
		t.Error("Get().DiscoveredAt is zero, want defaulted timestamp")
	}
}

func TestGetMissingItem(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "t3_missing")
	if !errors.Is(err, sharederrors.ErrItemNotFound) {
		t.Errorf("Get() error = %v, want ErrItemNotFound", err)
	}
}

func TestExistsUnknownItem(t *testing.T) {
	repo := newTestRepo(t)

	exists, err := repo.Exists(context.Background(), "t3_nope")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for unknown item, want false")
	}
}
