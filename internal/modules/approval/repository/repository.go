package repository

import (
	"context"

	"github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
)

// Repository defines the interface for approval record persistence
type Repository interface {
	CreatePending(ctx context.Context, pending *domain.PendingApproval) error
	// FindByHandle looks up a pending approval by its delivery handle,
	// returning ErrExpiredDecision when no row matches.
	FindByHandle(ctx context.Context, handle string) (*domain.PendingApproval, error)
	// FinalizeApproval removes the pending row, appends the approved
	// record and marks the item approved in one transaction. It reports
	// false without changing anything when the pending row is already
	// gone, which is how a second decision on the same handle loses.
	FinalizeApproval(ctx context.Context, pending *domain.PendingApproval, forwardedHandle string) (bool, error)
	// FinalizeRejection removes the pending row and marks the item
	// rejected in one transaction, with the same already-gone semantics
	// as FinalizeApproval.
	FinalizeRejection(ctx context.Context, pending *domain.PendingApproval) (bool, error)
	CountPending(ctx context.Context) (int, error)
	ListApproved(ctx context.Context, limit int) ([]*domain.ApprovedRecord, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}
