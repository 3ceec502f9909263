package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	approvalRepo "github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	feedService "github.com/okhotnikdev/mediagate/internal/modules/feed/service"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
	sharederrors "github.com/okhotnikdev/mediagate/internal/shared/errors"
)

type mockApprovalRepo struct {
	records []*approvalDomain.ApprovedRecord
	listErr error
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
	return m.records, m.listErr
}

func (m *mockApprovalRepo) Stats(ctx context.Context) (*approvalDomain.Stats, error) {
	return &approvalDomain.Stats{}, nil
}

func newTestServer(repo *mockApprovalRepo) *Server {
	cfg := &config.Config{HTTPPort: "8085"}
	return New(cfg, feedService.New(repo))
}

func TestHandleApprovedFeed(t *testing.T) {
	server := newTestServer(&mockApprovalRepo{
		records: []*approvalDomain.ApprovedRecord{{
			ID:            1,
			ItemID:        "abc1",
			TargetChannel: "@scenery",
			ApprovedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			ItemTitle:     "Sunrise over the fjord",
			ItemSource:    "earthporn",
			ItemPermalink: "https://listing.example.com/r/earthporn/comments/abc1",
		}},
	})

	req := httptest.NewRequest("GET", "http://feeds.example.com/feed/approved.rss", nil)
	rec := httptest.NewRecorder()
	server.handleApprovedFeed(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "application/rss+xml") {
		t.Errorf("unexpected content type %q", got)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<rss") {
		t.Errorf("expected RSS XML, got %q", body)
	}
	if !strings.Contains(body, "Sunrise over the fjord") {
		t.Errorf("expected the approved item title in the feed, got %q", body)
	}
	if !strings.Contains(body, "http://feeds.example.com/feed/approved.rss") {
		t.Errorf("expected request-derived feed link, got %q", body)
	}
}

func TestHandleApprovedFeedStoreFailure(t *testing.T) {
	server := newTestServer(&mockApprovalRepo{listErr: errors.New("database is locked")})

	req := httptest.NewRequest("GET", "http://feeds.example.com/feed/approved.rss", nil)
	rec := httptest.NewRecorder()
	server.handleApprovedFeed(rec, req)

	if rec.Code != 500 {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&mockApprovalRepo{})

	req := httptest.NewRequest("GET", "http://feeds.example.com/health", nil)
	rec := httptest.NewRecorder()
	server.handleHealth(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"ok"}` {
		t.Errorf("unexpected health body %q", body)
	}
}
