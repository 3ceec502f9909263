package service

import (
	"context"
	"strings"
	"time"

	"github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	ruleRepo "github.com/okhotnikdev/mediagate/internal/modules/rule/repository"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service handles forwarding rule business logic
type Service struct {
	ruleRepo ruleRepo.Repository
}

// New creates a new rule service
func New(ruleRepo ruleRepo.Repository) *Service {
	return &Service{ruleRepo: ruleRepo}
}

// CreateOrUpdate validates and stores a rule. A rule that matches an existing
// one on (owner, source, sort mode, target channel) overwrites it instead of
// creating a duplicate.
func (s *Service) CreateOrUpdate(ctx context.Context, rule *domain.Rule) (*domain.Rule, error) {
	rule.Source = normalizeSource(rule.Source)
	if rule.Source == "" {
		return nil, oops.With("owner_id", rule.OwnerID).Wrapf(sharederrors.ErrInvalidRule, "source is required")
	}
	if rule.TargetChannel == "" {
		return nil, oops.With("owner_id", rule.OwnerID, "source", rule.Source).Wrapf(sharederrors.ErrInvalidRule, "target channel is required")
	}
	if !domain.ValidFrequency(rule.FrequencyHours) {
		return nil, oops.With("owner_id", rule.OwnerID, "frequency_hours", rule.FrequencyHours).
			Wrapf(sharederrors.ErrInvalidRule, "check frequency must be between %d and %d hours", domain.MinFrequencyHours, domain.MaxFrequencyHours)
	}

	if rule.SortMode == "" {
		rule.SortMode = domain.SortModeHot
	}
	if rule.SortMode == domain.SortModeTop && rule.TimeWindow == "" {
		rule.TimeWindow = domain.TimeWindowDay
	}

	return s.ruleRepo.Upsert(ctx, rule)
}

// ListForOwner retrieves all rules created by the given owner
func (s *Service) ListForOwner(ctx context.Context, ownerID int64) ([]*domain.Rule, error) {
	return s.ruleRepo.ListForOwner(ctx, ownerID)
}

// Get retrieves a rule by ID
func (s *Service) Get(ctx context.Context, id int64) (*domain.Rule, error) {
	return s.ruleRepo.Get(ctx, id)
}

// ListDue returns the active rules whose next check time has arrived,
// in creation order
func (s *Service) ListDue(ctx context.Context, now time.Time) ([]*domain.Rule, error) {
	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Filter(rules, func(rule *domain.Rule, _ int) bool {
		return rule.Due(now)
	}), nil
}

// Delete removes a rule, refusing when the caller does not own it
func (s *Service) Delete(ctx context.Context, id int64, ownerID int64) error {
	return s.ruleRepo.Delete(ctx, id, ownerID)
}

// MarkChecked records that a rule's batch finished at the given time
func (s *Service) MarkChecked(ctx context.Context, id int64, checkedAt time.Time) error {
	return s.ruleRepo.TouchChecked(ctx, id, checkedAt)
}

// normalizeSource strips decorations users paste along with community names,
// like a leading "r/" or surrounding whitespace
func normalizeSource(source string) string {
	source = strings.TrimSpace(source)
	source = strings.TrimPrefix(source, "/")
	source = strings.TrimPrefix(source, "r/")
	return strings.ToLower(source)
}
