package repository

import (
	"context"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
)

// Repository defines the interface for forwarding rule persistence
type Repository interface {
	// Upsert inserts the rule or, when one already exists for the same
	// (owner, source, sort mode, target channel), overwrites its frequency
	// and time window and re-arms it for an immediate check. The stored
	// rule is returned with its ID populated.
	Upsert(ctx context.Context, rule *domain.Rule) (*domain.Rule, error)
	Get(ctx context.Context, id int64) (*domain.Rule, error)
	ListActive(ctx context.Context) ([]*domain.Rule, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Rule, error)
	Delete(ctx context.Context, id int64, ownerID int64) error
	TouchChecked(ctx context.Context, id int64, checkedAt time.Time) error
}
