package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
	"github.com/samber/oops"
)

// SQLiteStorage implements rule.Repository using the shared sqlite database
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new sqlite-backed rule repository
func NewSQLiteStorage(db *sql.DB) Repository {
	return &SQLiteStorage{db: db}
}

func (s *SQLiteStorage) Upsert(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	stored := *rule
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO rules (owner_id, source, sort_mode, time_window, frequency_hours, target_channel, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT (owner_id, source, sort_mode, target_channel) DO UPDATE SET
			time_window = excluded.time_window,
			frequency_hours = excluded.frequency_hours,
			is_active = 1,
			last_checked_at = NULL
		RETURNING id, created_at`,
		rule.OwnerID, rule.Source, rule.SortMode.String(), rule.TimeWindow.String(),
		rule.FrequencyHours, rule.TargetChannel, time.Now().UTC()).
		Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, oops.With("owner_id", rule.OwnerID, "source", rule.Source, "context", "failed to upsert rule").Wrap(err)
	}

	stored.IsActive = true
	stored.LastCheckedAt = time.Time{}

	return &stored, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, id int64) (*domain.Rule, error) {
	rule, err := scanRule(s.db.QueryRowContext(ctx, selectRule+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sharederrors.ErrRuleNotFound
	}
	if err != nil {
		return nil, oops.With("rule_id", id, "context", "failed to load rule").Wrap(err)
	}

	return rule, nil
}

func (s *SQLiteStorage) ListActive(ctx context.Context) ([]*domain.Rule, error) {
	rows, err := s.db.QueryContext(ctx, selectRule+" WHERE is_active = 1 ORDER BY created_at, id")
	if err != nil {
		return nil, oops.With("context", "failed to list active rules").Wrap(err)
	}
	defer rows.Close()

	return collectRules(rows)
}

func (s *SQLiteStorage) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Rule, error) {
	rows, err := s.db.QueryContext(ctx, selectRule+" WHERE owner_id = ? ORDER BY created_at, id", ownerID)
	if err != nil {
		return nil, oops.With("owner_id", ownerID, "context", "failed to list owner rules").Wrap(err)
	}
	defer rows.Close()

	return collectRules(rows)
}

func (s *SQLiteStorage) Delete(ctx context.Context, id int64, ownerID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return oops.With("rule_id", id, "owner_id", ownerID, "context", "failed to delete rule").Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return oops.With("rule_id", id, "context", "failed to read delete result").Wrap(err)
	}
	if affected == 0 {
		return sharederrors.ErrRuleNotFound
	}

	return nil
}

func (s *SQLiteStorage) TouchChecked(ctx context.Context, id int64, checkedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, "UPDATE rules SET last_checked_at = ? WHERE id = ?", checkedAt.UTC(), id)
	if err != nil {
		return oops.With("rule_id", id, "context", "failed to record rule check").Wrap(err)
	}

	return nil
}

const selectRule = `
	SELECT id, owner_id, source, sort_mode, time_window, frequency_hours, target_channel, is_active, created_at, last_checked_at
	FROM rules`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*domain.Rule, error) {
	var (
		rule        domain.Rule
		sortMode    string
		timeWindow  string
		lastChecked sql.NullTime
	)
	err := row.Scan(&rule.ID, &rule.OwnerID, &rule.Source, &sortMode, &timeWindow,
		&rule.FrequencyHours, &rule.TargetChannel, &rule.IsActive, &rule.CreatedAt, &lastChecked)
	if err != nil {
		return nil, err
	}

	rule.SortMode = domain.SortMode(sortMode)
	rule.TimeWindow = domain.TimeWindow(timeWindow)
	if lastChecked.Valid {
		rule.LastCheckedAt = lastChecked.Time
	}

	return &rule, nil
}

func collectRules(rows *sql.Rows) ([]*domain.Rule, error) {
	rules := []*domain.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, oops.With("context", "failed to scan rule row").Wrap(err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("context", "failed to iterate rule rows").Wrap(err)
	}

	return rules, nil
}
