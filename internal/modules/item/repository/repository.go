package repository

import (
	"context"

	"github.com/okhotnikdev/mediagate/internal/modules/item/domain"
)

// Repository defines the interface for item data persistence
type Repository interface {
	// Register inserts the item if its ID has never been seen before.
	// It reports true when this call inserted the row and false when a
	// previous registration already claimed the ID.
	Register(ctx context.Context, item *domain.Item) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
}
