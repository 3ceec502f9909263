package service

import (
	"context"
	"fmt"

	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
)

// galleryStrategies resolves a gallery to its first fetchable image, in the
// gallery's own order. One representative image goes out for approval, not
// the whole set.
func (r *Resolver) galleryStrategies(desc itemDomain.Descriptor) []strategy {
	strategies := make([]strategy, 0, len(desc.GalleryURLs))
	for i, galleryURL := range desc.GalleryURLs {
		strategies = append(strategies, strategy{
			name: fmt.Sprintf("gallery_item_%d", i),
			run: func(ctx context.Context, att *attempt) (string, error) {
				return r.saveImage(ctx, att, galleryURL)
			},
		})
	}

	// An empty media map yields no strategies, which the resolver reports
	// as no media found.
	return strategies
}
