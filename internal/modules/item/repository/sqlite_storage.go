package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
	"github.com/samber/oops"
)

// SQLiteStorage implements item.Repository using the shared sqlite database
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new sqlite-backed item repository
func NewSQLiteStorage(db *sql.DB) Repository {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Register(ctx context.Context, item *domain.Item) (bool, error) {
	discoveredAt := item.DiscoveredAt
	if discoveredAt.IsZero() {
		discoveredAt = time.Now().UTC()
	}
	status := item.Status
	if status == "" {
		status = domain.ItemStatusPending
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, source, title, url, author, created_at, permalink, media_kind, file_path, discovered_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		item.ID, item.Source, item.Title, item.URL, item.Author, item.CreatedAt,
		item.Permalink, item.MediaKind.String(), item.FilePath, discoveredAt, status.String())
	if err != nil {
		return false, oops.With("item_id", item.ID, "context", "failed to register item").Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, oops.With("item_id", item.ID, "context", "failed to read register result").Wrap(err)
	}

	return affected > 0, nil
}

func (s *SQLiteStorage) Exists(ctx context.Context, id string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.With("item_id", id, "context", "failed to check item existence").Wrap(err)
	}

	return true, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, id string) (*domain.Item, error) {
	var (
		item      domain.Item
		mediaKind string
		status    string
		createdAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, title, url, author, created_at, permalink, media_kind, file_path, discovered_at, status
		FROM items WHERE id = ?`, id).Scan(
		&item.ID, &item.Source, &item.Title, &item.URL, &item.Author, &createdAt,
		&item.Permalink, &mediaKind, &item.FilePath, &item.DiscoveredAt, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sharederrors.ErrItemNotFound
	}
	if err != nil {
		return nil, oops.With("item_id", id, "context", "failed to load item").Wrap(err)
	}

	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}
	item.MediaKind = domain.MediaKind(mediaKind)
	item.Status = domain.ItemStatus(status)

	return &item, nil
}
