package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/media/domain"
	"github.com/samber/oops"
	_ "golang.org/x/image/webp"
)

func (r *Resolver) imageStrategies(desc itemDomain.Descriptor) []strategy {
	if desc.URL == "" {
		return nil
	}

	if domain.IsDirectImageURL(desc.URL) {
		return []strategy{{
			name: "direct_image",
			run: func(ctx context.Context, att *attempt) (string, error) {
				return r.saveImage(ctx, att, desc.URL)
			},
		}}
	}

	strategies := []strategy{}
	if domain.IsImgurPage(desc.URL) {
		// Imgur page links have a predictable direct counterpart, which is
		// cheaper than scraping the page.
		if direct := imgurDirectURL(desc.URL); direct != "" {
			strategies = append(strategies, strategy{
				name: "imgur_direct",
				run: func(ctx context.Context, att *attempt) (string, error) {
					return r.saveImage(ctx, att, direct)
				},
			})
		}
	}

	strategies = append(strategies, strategy{
		name: "page_og_image",
		run: func(ctx context.Context, att *attempt) (string, error) {
			return r.saveImageFromPage(ctx, att, desc.URL)
		},
	})

	return strategies
}

// saveImage fetches a direct image URL, validates that the bytes decode,
// and persists the result. Transparency is flattened onto white and the
// image re-encoded as JPEG only when the original cannot be kept as-is.
func (r *Resolver) saveImage(ctx context.Context, att *attempt, imageURL string) (string, error) {
	body, _, err := r.fetcher.Get(ctx, imageURL)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", oops.With("url", imageURL).Wrapf(domain.ErrValidationFailed, "empty response body")
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return "", oops.With("url", imageURL).Wrapf(domain.ErrValidationFailed, "downloaded bytes are not a decodable image: %s", err)
	}

	if isOpaque(img) {
		dest := att.path("." + extensionForFormat(format))
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return "", oops.With("path", dest, "context", "failed to persist image").Wrap(err)
		}
		return dest, nil
	}

	dest := att.path(".jpg")
	out, err := os.Create(dest)
	if err != nil {
		return "", oops.With("path", dest, "context", "failed to create image file").Wrap(err)
	}

	err = jpeg.Encode(out, flattenOntoWhite(img), &jpeg.Options{Quality: 85})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", oops.With("path", dest, "context", "failed to encode flattened image").Wrap(err)
	}

	return dest, nil
}

// saveImageFromPage fetches a page URL and follows its og:image meta tag
func (r *Resolver) saveImageFromPage(ctx context.Context, att *attempt, pageURL string) (string, error) {
	body, _, err := r.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", oops.With("url", pageURL, "context", "failed to parse page").Wrap(err)
	}

	imageURL, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	if !ok || imageURL == "" {
		return "", oops.With("url", pageURL).Wrapf(domain.ErrNoMediaFound, "page has no og:image tag")
	}

	return r.saveImage(ctx, att, imageURL)
}

// imgurDirectURL maps an imgur page link to its i.imgur.com file URL
func imgurDirectURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	id := path.Base(u.Path)
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" || id == "." || id == "/" {
		return ""
	}

	return "https://i.imgur.com/" + id + ".jpg"
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func flattenOntoWhite(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	default:
		return format
	}
}
