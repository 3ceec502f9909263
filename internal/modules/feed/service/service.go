package service

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	approvalDomain "github.com/okhotnikdev/mediagate/internal/modules/approval/domain"
	approvalRepo "github.com/okhotnikdev/mediagate/internal/modules/approval/repository"
	"github.com/samber/oops"
)

// DefaultFeedSize caps how many approved records the feed carries.
const DefaultFeedSize = 50

// Service handles RSS feed generation
type Service struct {
	approvals approvalRepo.Repository
}

// New creates a new feed service
func New(approvals approvalRepo.Repository) *Service {
	return &Service{
		approvals: approvals,
	}
}

// GenerateFeed generates an RSS feed of recently approved items
func (s *Service) GenerateFeed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	records, err := s.approvals.ListApproved(ctx, DefaultFeedSize)
	if err != nil {
		return nil, oops.With("context", "failed to list approved records").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Approved media",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed/approved.rss", baseURL)},
		Description: "Items approved for forwarding, newest first",
	}
	if len(records) > 0 {
		feed.Updated = records[0].ApprovedAt
	}

	var items []*feeds.Item
	for _, record := range records {
		items = append(items, s.recordToFeedItem(record))
	}

	feed.Items = items
	return feed, nil
}

func (s *Service) recordToFeedItem(record *approvalDomain.ApprovedRecord) *feeds.Item {
	description := fmt.Sprintf("Approved from r/%s and posted to %s", record.ItemSource, record.TargetChannel)
	content := fmt.Sprintf("<p>%s</p><p>%s</p>", escapeHTML(record.ItemTitle), escapeHTML(description))

	return &feeds.Item{
		Title:       truncate(record.ItemTitle, 100),
		Link:        &feeds.Link{Href: record.ItemPermalink},
		Description: description,
		Content:     content,
		Author:      &feeds.Author{Name: "r/" + record.ItemSource},
		Created:     record.ApprovedAt,
		Id:          fmt.Sprintf("%s-%d", record.ItemID, record.ID),
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func escapeHTML(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '<':
			result = append(result, []rune("&lt;")...)
		case '>':
			result = append(result, []rune("&gt;")...)
		case '&':
			result = append(result, []rune("&amp;")...)
		case '"':
			result = append(result, []rune("&quot;")...)
		case '\'':
			result = append(result, []rune("&#39;")...)
		default:
			result = append(result, r)
		}
	}
	return string(result)
}
