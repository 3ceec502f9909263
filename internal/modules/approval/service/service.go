package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
)

// Forwarder posts an approved item to its target channel, returning a
// handle for the forwarded message.
type Forwarder interface {
	ForwardToChannel(ctx context.Context, targetChannel string, pending *domain.PendingApproval) (string, error)
}

// MediaCleaner removes a media file once no decision can need it anymore.
type MediaCleaner interface {
	Cleanup(path string)
}

// Service applies approve/reject decisions to pending reviews
type Service struct {
	approvals repository.Repository
	forwarder Forwarder
	cleaner   MediaCleaner
}

// New creates a new approval service
func New(approvals repository.Repository, forwarder Forwarder, cleaner MediaCleaner) *Service {
	return &Service{
		approvals: approvals,
		forwarder: forwarder,
		cleaner:   cleaner,
	}
}

// HandleDecision resolves one inbound decision. Every path returns a
// resolution the transport can show to the deciding owner; nothing here is
// allowed to panic or crash the caller.
func (s *Service) HandleDecision(ctx context.Context, decision domain.Decision) domain.Resolution {
	pending, err := s.approvals.FindByHandle(ctx, decision.Handle)
	if err != nil {
		if errors.Is(err, sharederrors.ErrExpiredDecision) {
			return domain.Resolution{
				Outcome: domain.OutcomeExpired,
				Detail:  "This review is no longer pending.",
			}
		}
		slog.Error("Failed to look up pending review", "handle", decision.Handle, "error", err)
		return domain.Resolution{
			Outcome: domain.OutcomeStoreError,
			Detail:  "Could not load the review, please try again.",
		}
	}

	switch decision.Kind {
	case domain.DecisionKindApprove:
		return s.approve(ctx, pending)
	case domain.DecisionKindReject:
		return s.reject(ctx, pending)
	default:
		slog.Warn("Ignoring unknown decision kind", "kind", decision.Kind, "handle", decision.Handle)
		return domain.Resolution{
			Outcome: domain.OutcomeExpired,
			Detail:  "Unsupported decision.",
		}
	}
}

func (s *Service) approve(ctx context.Context, pending *domain.PendingApproval) domain.Resolution {
	if _, err := os.Stat(pending.ItemFilePath); err != nil {
		// The pending row is left intact so the owner can retry once the
		// file is restored. An item resolved without media stats the empty
		// path and lands here too.
		slog.Error("Media file missing at approval time",
			"item_id", pending.ItemID,
			"file_path", pending.ItemFilePath)
		return domain.Resolution{
			Outcome: domain.OutcomeMediaMissing,
			Detail:  "Media file is missing; the review stays pending.",
		}
	}

	forwardedHandle, err := s.forwarder.ForwardToChannel(ctx, pending.TargetChannel, pending)
	if err != nil {
		slog.Error("Failed to forward approved item",
			"item_id", pending.ItemID,
			"target_channel", pending.TargetChannel,
			"error", err)
		return domain.Resolution{
			Outcome: domain.OutcomeDeliveryFailed,
			Detail:  fmt.Sprintf("Could not post to %s; the review stays pending.", pending.TargetChannel),
		}
	}

	applied, err := s.approvals.FinalizeApproval(ctx, pending, forwardedHandle)
	if err != nil {
		slog.Error("Failed to finalize approval", "item_id", pending.ItemID, "error", err)
		return domain.Resolution{
			Outcome: domain.OutcomeStoreError,
			Detail:  "Posted, but recording the approval failed.",
		}
	}
	if !applied {
		return domain.Resolution{
			Outcome: domain.OutcomeExpired,
			Detail:  "This review was already decided.",
		}
	}

	s.cleaner.Cleanup(pending.ItemFilePath)
	slog.Info("Item approved and forwarded",
		"item_id", pending.ItemID,
		"target_channel", pending.TargetChannel,
		"forwarded_handle", forwardedHandle)
	return domain.Resolution{
		Outcome: domain.OutcomeApproved,
		Detail:  fmt.Sprintf("Posted to %s.", pending.TargetChannel),
	}
}

func (s *Service) reject(ctx context.Context, pending *domain.PendingApproval) domain.Resolution {
	applied, err := s.approvals.FinalizeRejection(ctx, pending)
	if err != nil {
		slog.Error("Failed to finalize rejection", "item_id", pending.ItemID, "error", err)
		return domain.Resolution{
			Outcome: domain.OutcomeStoreError,
			Detail:  "Recording the rejection failed, please try again.",
		}
	}
	if !applied {
		return domain.Resolution{
			Outcome: domain.OutcomeExpired,
			Detail:  "This review was already decided.",
		}
	}

	if pending.ItemFilePath != "" {
		s.cleaner.Cleanup(pending.ItemFilePath)
	}
	slog.Info("Item rejected", "item_id", pending.ItemID)
	return domain.Resolution{
		Outcome: domain.OutcomeRejected,
		Detail:  "Rejected and discarded.",
	}
}

// Stats reports store-wide counters for operator commands
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.approvals.Stats(ctx)
}
