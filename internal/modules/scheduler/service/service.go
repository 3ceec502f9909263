package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	approvalRepo "github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	itemRepo "github.com/okhotnikdev/mediagate/internal/modules/item/repository"
	mediaDomain "github.com/okhotnikdev/mediagate/internal/modules/media/domain"
	mediaService "github.com/okhotnikdev/mediagate/internal/modules/media/service"
	ruleDomain "github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	ruleService "github.com/okhotnikdev/mediagate/internal/modules/rule/service"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
)

// SourceLister lists candidate items for a feed
type SourceLister interface {
	List(ctx context.Context, source string, sort ruleDomain.SortMode, window ruleDomain.TimeWindow, limit int) ([]itemDomain.Descriptor, error)
}

// MediaResolver turns a descriptor into a local media file
type MediaResolver interface {
	Resolve(ctx context.Context, desc itemDomain.Descriptor) (*mediaService.Resolved, error)
	Cleanup(path string)
}

// Delivery sends a resolved item to its owner for an approve/reject decision
type Delivery interface {
	DeliverForApproval(ctx context.Context, ownerID int64, item *itemDomain.Item) (string, error)
}

// Service owns the periodic check loop: it finds due rules, lists their
// sources, resolves media for unseen items and hands the results to the
// approval flow.
type Service struct {
	cfg       *config.Config
	rules     *ruleService.Service
	items     itemRepo.Repository
	approvals approvalRepo.Repository
	resolver  MediaResolver
	source    SourceLister
	delivery  Delivery
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	tickMu   sync.RWMutex
	lastTick time.Time
}

// New creates a new scheduler service
func New(
	cfg *config.Config,
	rules *ruleService.Service,
	items itemRepo.Repository,
	approvals approvalRepo.Repository,
	resolver MediaResolver,
	source SourceLister,
	delivery Delivery,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:       cfg,
		rules:     rules,
		items:     items,
		approvals: approvals,
		resolver:  resolver,
		source:    source,
		delivery:  delivery,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the periodic check loop
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.monitorLoop()
}

// Stop cancels any in-flight batch and waits for the loop to exit
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) monitorLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Duration(s.cfg.CheckIntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Initial tick
	s.runTick()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runTick()
		}
	}
}

// LastTick reports when the most recent check pass started. Zero until
// the first pass runs.
func (s *Service) LastTick() time.Time {
	s.tickMu.RLock()
	defer s.tickMu.RUnlock()
	return s.lastTick
}

func (s *Service) runTick() {
	s.tickMu.Lock()
	s.lastTick = time.Now().UTC()
	s.tickMu.Unlock()

	due, err := s.rules.ListDue(s.ctx, time.Now().UTC())
	if err != nil {
		slog.Error("Failed to list due rules, skipping tick", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	slog.Info("Processing due rules", "count", len(due))
	for _, rule := range due {
		if s.ctx.Err() != nil {
			return
		}
		s.CheckRule(s.ctx, rule)
	}
}

// CheckRule runs one rule's batch immediately. The scheduler calls it for
// every due rule each tick; the rule-authoring flow calls it out of band
// right after a rule is created.
func (s *Service) CheckRule(ctx context.Context, rule *ruleDomain.Rule) {
	descriptors, err := s.source.List(ctx, rule.Source, rule.SortMode, rule.TimeWindow, s.cfg.MaxItemsPerCheck)
	if err != nil {
		// The rule stays due and retries on its next cycle.
		slog.Error("Source listing failed", "rule_id", rule.ID, "source", rule.Source, "error", err)
		return
	}

	slog.Debug("Checking rule", "rule_id", rule.ID, "source", rule.Source, "candidates", len(descriptors))
	s.processBatch(ctx, rule, descriptors)

	if err := s.rules.MarkChecked(ctx, rule.ID, time.Now().UTC()); err != nil {
		slog.Error("Failed to record rule check time", "rule_id", rule.ID, "error", err)
	}
}

// processBatch walks the candidates in listing order, skipping known items
// and resolving the rest on a bounded worker pool. One item's failure never
// aborts the rest of the batch.
func (s *Service) processBatch(ctx context.Context, rule *ruleDomain.Rule, descriptors []itemDomain.Descriptor) {
	workers := s.cfg.MaxConcurrentResolves
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for _, desc := range descriptors {
		if ctx.Err() != nil {
			break
		}

		exists, err := s.items.Exists(ctx, desc.ID)
		if err != nil {
			slog.Error("Failed to check item existence, skipping item", "item_id", desc.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(desc itemDomain.Descriptor) {
			defer wg.Done()
			defer func() { <-sem }()
			s.processItem(ctx, rule, desc)
		}(desc)
	}
	wg.Wait()
}

func (s *Service) processItem(ctx context.Context, rule *ruleDomain.Rule, desc itemDomain.Descriptor) {
	resolved, resolveErr := s.resolver.Resolve(ctx, desc)

	item := &itemDomain.Item{
		ID:           desc.ID,
		Source:       desc.Source,
		Title:        desc.Title,
		URL:          desc.URL,
		Author:       desc.Author,
		CreatedAt:    desc.CreatedAt,
		Permalink:    desc.Permalink,
		DiscoveredAt: time.Now().UTC(),
		Status:       itemDomain.ItemStatusPending,
	}
	if resolveErr != nil {
		// Registered anyway, with no file, so the next pass never
		// re-attempts this item.
		slog.Info("Media resolution failed", "item_id", desc.ID, "error", resolveErr)
		item.MediaKind = mediaDomain.Classify(desc)
	} else {
		item.MediaKind = resolved.Kind
		item.FilePath = resolved.FilePath
	}

	inserted, err := s.items.Register(ctx, item)
	if err != nil {
		slog.Error("Failed to register item, skipping", "item_id", item.ID, "error", err)
		if resolved != nil {
			s.resolver.Cleanup(resolved.FilePath)
		}
		return
	}
	if !inserted {
		// Another discovery beat this one to the insert; drop our copy.
		slog.Debug("Item already registered elsewhere", "item_id", item.ID)
		if resolved != nil {
			s.resolver.Cleanup(resolved.FilePath)
		}
		return
	}

	if resolveErr != nil {
		return
	}

	handle, err := s.delivery.DeliverForApproval(ctx, rule.OwnerID, item)
	if err != nil {
		// The item stays registered; the file is reclaimed by the sweeper.
		slog.Error("Failed to deliver item for approval", "item_id", item.ID, "owner_id", rule.OwnerID, "error", err)
		return
	}

	pending := &approvalDomain.PendingApproval{
		ItemID:         item.ID,
		OwnerID:        rule.OwnerID,
		RuleID:         rule.ID,
		DeliveryHandle: handle,
	}
	if err := s.approvals.CreatePending(ctx, pending); err != nil {
		slog.Error("Failed to create pending approval", "item_id", item.ID, "delivery_handle", handle, "error", err)
		return
	}

	slog.Info("Item delivered for approval",
		"item_id", item.ID,
		"rule_id", rule.ID,
		"owner_id", rule.OwnerID,
		"delivery_handle", handle)
}
