package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
	"github.com/samber/oops"
)

// SQLiteStorage implements approval.Repository using the shared sqlite database
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new sqlite-backed approval repository
func NewSQLiteStorage(db *sql.DB) Repository {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) CreatePending(ctx context.Context, pending *domain.PendingApproval) error {
	createdAt := pending.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pending_approvals (item_id, owner_id, rule_id, delivery_handle, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		pending.ItemID, pending.OwnerID, pending.RuleID, pending.DeliveryHandle, createdAt).
		Scan(&pending.ID)
	if err != nil {
		return oops.With("item_id", pending.ItemID, "delivery_handle", pending.DeliveryHandle, "context", "failed to create pending approval").Wrap(err)
	}

	return nil
}

func (s *SQLiteStorage) FindByHandle(ctx context.Context, handle string) (*domain.PendingApproval, error) {
	var pending domain.PendingApproval
	err := s.db.QueryRowContext(ctx, `
		SELECT pa.id, pa.item_id, pa.owner_id, pa.rule_id, pa.delivery_handle, pa.created_at,
		       i.title, i.file_path, i.source, i.permalink, r.target_channel
		FROM pending_approvals pa
		JOIN items i ON i.id = pa.item_id
		JOIN rules r ON r.id = pa.rule_id
		WHERE pa.delivery_handle = ?`, handle).
		Scan(&pending.ID, &pending.ItemID, &pending.OwnerID, &pending.RuleID, &pending.DeliveryHandle, &pending.CreatedAt,
			&pending.ItemTitle, &pending.ItemFilePath, &pending.ItemSource, &pending.ItemPermalink, &pending.TargetChannel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sharederrors.ErrExpiredDecision
	}
	if err != nil {
		return nil, oops.With("delivery_handle", handle, "context", "failed to find pending approval").Wrap(err)
	}

	return &pending, nil
}

func (s *SQLiteStorage) FinalizeApproval(ctx context.Context, pending *domain.PendingApproval, forwardedHandle string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, oops.With("pending_id", pending.ID, "context", "failed to begin approval transaction").Wrap(err)
	}
	defer tx.Rollback()

	claimed, err := deletePending(ctx, tx, pending.ID)
	if err != nil || !claimed {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO approved_records (item_id, owner_id, rule_id, target_channel, forwarded_handle, approved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pending.ItemID, pending.OwnerID, pending.RuleID, pending.TargetChannel, forwardedHandle, time.Now().UTC())
	if err != nil {
		return false, oops.With("pending_id", pending.ID, "context", "failed to append approved record").Wrap(err)
	}

	if err := setItemStatus(ctx, tx, pending.ItemID, itemDomain.ItemStatusApproved); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, oops.With("pending_id", pending.ID, "context", "failed to commit approval").Wrap(err)
	}

	return true, nil
}

func (s *SQLiteStorage) FinalizeRejection(ctx context.Context, pending *domain.PendingApproval) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, oops.With("pending_id", pending.ID, "context", "failed to begin rejection transaction").Wrap(err)
	}
	defer tx.Rollback()

	claimed, err := deletePending(ctx, tx, pending.ID)
	if err != nil || !claimed {
		return false, err
	}

	if err := setItemStatus(ctx, tx, pending.ItemID, itemDomain.ItemStatusRejected); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, oops.With("pending_id", pending.ID, "context", "failed to commit rejection").Wrap(err)
	}

	return true, nil
}

func (s *SQLiteStorage) CountPending(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pending_approvals").Scan(&count)
	if err != nil {
		return 0, oops.With("context", "failed to count pending approvals").Wrap(err)
	}

	return count, nil
}

func (s *SQLiteStorage) ListApproved(ctx context.Context, limit int) ([]*domain.ApprovedRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ar.id, ar.item_id, ar.owner_id, ar.rule_id, ar.target_channel, ar.forwarded_handle, ar.approved_at,
		       i.title, i.source, i.permalink
		FROM approved_records ar
		JOIN items i ON i.id = ar.item_id
		ORDER BY ar.approved_at DESC, ar.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, oops.With("context", "failed to list approved records").Wrap(err)
	}
	defer rows.Close()

	records := []*domain.ApprovedRecord{}
	for rows.Next() {
		var record domain.ApprovedRecord
		err := rows.Scan(&record.ID, &record.ItemID, &record.OwnerID, &record.RuleID, &record.TargetChannel,
			&record.ForwardedHandle, &record.ApprovedAt, &record.ItemTitle, &record.ItemSource, &record.ItemPermalink)
		if err != nil {
			return nil, oops.With("context", "failed to scan approved record").Wrap(err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("context", "failed to iterate approved records").Wrap(err)
	}

	return records, nil
}

func (s *SQLiteStorage) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM items WHERE status = 'pending'),
			(SELECT COUNT(*) FROM items WHERE status = 'approved'),
			(SELECT COUNT(*) FROM items WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM pending_approvals),
			(SELECT COUNT(*) FROM rules WHERE is_active = 1)`).
		Scan(&stats.TotalItems, &stats.PendingItems, &stats.ApprovedItems, &stats.RejectedItems,
			&stats.PendingReviews, &stats.ActiveRules)
	if err != nil {
		return nil, oops.With("context", "failed to load store stats").Wrap(err)
	}

	return &stats, nil
}

func deletePending(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.ExecContext(ctx, "DELETE FROM pending_approvals WHERE id = ?", id)
	if err != nil {
		return false, oops.With("pending_id", id, "context", "failed to claim pending approval").Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, oops.With("pending_id", id, "context", "failed to read claim result").Wrap(err)
	}

	return affected > 0, nil
}

func setItemStatus(ctx context.Context, tx *sql.Tx, itemID string, status itemDomain.ItemStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE items SET status = ? WHERE id = ?", status.String(), itemID)
	if err != nil {
		return oops.With("item_id", itemID, "status", status.String(), "context", "failed to update item status").Wrap(err)
	}

	return nil
}
