package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	ruleDomain "github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Client lists candidate items from a content source feed. It must surface
// enough fields per item to classify media kind without a second round trip.
type Client struct {
	cfg    *config.Config
	client *http.Client
}

// New creates a content source client
func New(cfg *config.Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// List fetches up to limit items for a feed, in the feed's own order
func (c *Client) List(ctx context.Context, source string, sort ruleDomain.SortMode, window ruleDomain.TimeWindow, limit int) ([]itemDomain.Descriptor, error) {
	listingURL := c.listingURL(source, sort, window, limit)

	var envelope listingEnvelope
	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.RequestTimeoutSeconds)*time.Second)
			defer cancel()

			req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, listingURL, http.NoBody)
			if err != nil {
				return retry.Unrecoverable(oops.With("url", listingURL, "context", "failed to create listing request").Wrap(err))
			}
			req.Header.Set("User-Agent", c.cfg.UserAgent)
			req.Header.Set("Accept", "application/json")

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(fmt.Errorf("HTTP %d", resp.StatusCode))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("HTTP %d", resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				return retry.Unrecoverable(oops.With("url", listingURL, "context", "failed to decode listing").Wrap(err))
			}

			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("Retrying source listing after error", "url", listingURL, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return nil, oops.With("source", source, "sort", sort.String(), "context", "listing failed after retries").Wrap(err)
	}

	return lo.Map(envelope.Data.Children, func(child listingChild, _ int) itemDomain.Descriptor {
		return toDescriptor(c.cfg.ListingBaseURL, child.Data)
	}), nil
}

func (c *Client) listingURL(source string, sort ruleDomain.SortMode, window ruleDomain.TimeWindow, limit int) string {
	base := strings.TrimSuffix(c.cfg.ListingBaseURL, "/")
	listingURL := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", base, source, sort.String(), limit)
	if sort == ruleDomain.SortModeTop && window != "" {
		listingURL += "&t=" + window.String()
	}
	return listingURL
}

type listingEnvelope struct {
	Data struct {
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Data listingItem `json:"data"`
}

type listingItem struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	IsSelf      bool    `json:"is_self"`
	IsVideo     bool    `json:"is_video"`
	IsGallery   bool    `json:"is_gallery"`
	GalleryData *struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`
	MediaMetadata map[string]struct {
		M string `json:"m"`
		S struct {
			U   string `json:"u"`
			GIF string `json:"gif"`
		} `json:"s"`
	} `json:"media_metadata"`
	Media *struct {
		RedditVideo *struct {
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`
}

func toDescriptor(baseURL string, item listingItem) itemDomain.Descriptor {
	desc := itemDomain.Descriptor{
		ID:          item.ID,
		Source:      item.Subreddit,
		Title:       item.Title,
		URL:         item.URL,
		Author:      item.Author,
		CreatedAt:   time.Unix(int64(item.CreatedUTC), 0).UTC(),
		Permalink:   strings.TrimSuffix(baseURL, "/") + item.Permalink,
		IsSelf:      item.IsSelf,
		IsVideo:     item.IsVideo,
		IsGallery:   item.IsGallery,
		GalleryURLs: galleryURLs(item),
	}

	if item.Media != nil && item.Media.RedditVideo != nil {
		desc.DashURL = html.UnescapeString(item.Media.RedditVideo.FallbackURL)
	}

	return desc
}

// galleryURLs extracts the ordered direct image URLs of a gallery. The
// gallery's item list carries the order; the metadata map carries the URLs,
// HTML-escaped.
func galleryURLs(item listingItem) []string {
	if item.GalleryData == nil || len(item.MediaMetadata) == 0 {
		return nil
	}

	urls := make([]string, 0, len(item.GalleryData.Items))
	for _, galleryItem := range item.GalleryData.Items {
		meta, ok := item.MediaMetadata[galleryItem.MediaID]
		if !ok {
			continue
		}
		if !strings.HasPrefix(meta.M, "image/") {
			continue
		}

		directURL := meta.S.U
		if directURL == "" {
			directURL = meta.S.GIF
		}
		if directURL == "" {
			continue
		}

		urls = append(urls, html.UnescapeString(directURL))
	}

	return urls
}
