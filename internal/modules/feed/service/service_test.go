package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	approvalRepo "github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
)

type mockApprovalRepo struct {
	listApprovedFunc func(limit int) ([]*approvalDomain.ApprovedRecord, error)
}

var _ approvalRepo.Repository = (*mockApprovalRepo)(nil)

func (m *mockApprovalRepo) CreatePending(ctx context.Context, pending *approvalDomain.PendingApproval) error {
	return nil
}

func (m *mockApprovalRepo) FindByHandle(ctx context.Context, handle string) (*approvalDomain.PendingApproval, error) {
	return nil, sharederrors.ErrExpiredDecision
}

func (m *mockApprovalRepo) FinalizeApproval(ctx context.Context, pending *approvalDomain.PendingApproval, forwardedHandle string) (bool, error) {
	return false, nil
}

func (m *mockApprovalRepo) FinalizeRejection(ctx context.Context, pending *approvalDomain.PendingApproval) (bool, error) {
	return false, nil
}

func (m *mockApprovalRepo) CountPending(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockApprovalRepo) ListApproved(ctx context.Context, limit int) ([]*approvalDomain.ApprovedRecord, error) {
	return m.listApprovedFunc(limit)
}

func (m *mockApprovalRepo) Stats(ctx context.Context) (*approvalDomain.Stats, error) {
	return &approvalDomain.Stats{}, nil
}

func TestGenerateFeed(t *testing.T) {
	newest := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	repo := &mockApprovalRepo{
		listApprovedFunc: func(limit int) ([]*approvalDomain.ApprovedRecord, error) {
			if limit != DefaultFeedSize {
				t.Errorf("expected limit %d, got %d", DefaultFeedSize, limit)
			}
			return []*approvalDomain.ApprovedRecord{
				{
					ID:            2,
					ItemID:        "abc2",
					TargetChannel: "@scenery",
					ApprovedAt:    newest,
					ItemTitle:     "Fjord at dawn <unreal>",
					ItemSource:    "earthporn",
					ItemPermalink: "https://listing.example.com/r/earthporn/comments/abc2",
				},
				{
					ID:            1,
					ItemID:        "abc1",
					TargetChannel: "@scenery",
					ApprovedAt:    newest.Add(-time.Hour),
					ItemTitle:     strings.Repeat("long ", 30),
					ItemSource:    "earthporn",
					ItemPermalink: "https://listing.example.com/r/earthporn/comments/abc1",
				},
			}, nil
		},
	}
	svc := New(repo)

	feed, err := svc.GenerateFeed(context.Background(), "https://feeds.example.com")
	if err != nil {
		t.Fatal(err)
	}

	if feed.Link.Href != "https://feeds.example.com/feed/approved.rss" {
		t.Errorf("unexpected feed link %q", feed.Link.Href)
	}
	if !feed.Updated.Equal(newest) {
		t.Errorf("expected feed updated at %v, got %v", newest, feed.Updated)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 feed items, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Title != "Fjord at dawn <unreal>" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if !strings.Contains(first.Content, "&lt;unreal&gt;") {
		t.Errorf("expected escaped HTML in content, got %q", first.Content)
	}
	if first.Id != "abc2-2" {
		t.Errorf("unexpected item id %q", first.Id)
	}
	if first.Link.Href != "https://listing.example.com/r/earthporn/comments/abc2" {
		t.Errorf("unexpected item link %q", first.Link.Href)
	}

	second := feed.Items[1]
	if len(second.Title) != 103 || !strings.HasSuffix(second.Title, "...") {
		t.Errorf("expected long title truncated to 100 plus ellipsis, got %d chars", len(second.Title))
	}
}

func TestGenerateFeedEmptyStore(t *testing.T) {
	repo := &mockApprovalRepo{
		listApprovedFunc: func(limit int) ([]*approvalDomain.ApprovedRecord, error) {
			return nil, nil
		},
	}
	svc := New(repo)

	feed, err := svc.GenerateFeed(context.Background(), "https://feeds.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 0 {
		t.Errorf("expected empty feed, got %d items", len(feed.Items))
	}
}

func TestGenerateFeedStoreFailure(t *testing.T) {
	repo := &mockApprovalRepo{
		listApprovedFunc: func(limit int) ([]*approvalDomain.ApprovedRecord, error) {
			return nil, errors.New("database is locked")
		},
	}
	svc := New(repo)

	if _, err := svc.GenerateFeed(context.Background(), "https://feeds.example.com"); err == nil {
		t.Fatal("expected error when the store is unavailable")
	}
}
