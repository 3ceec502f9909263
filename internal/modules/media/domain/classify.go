package domain

import (
	"net/url"
	"path"
	"strings"

	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
)

// Hosts that serve video natively or through predictable stream URLs.
var videoHosts = map[string]bool{
	"v.redd.it":      true,
	"gfycat.com":     true,
	"redgifs.com":    true,
	"streamable.com": true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var animatedExts = map[string]bool{
	".gif":  true,
	".gifv": true,
}

// Classify determines the media kind of a descriptor from its cheapest
// signals, in a fixed order: gallery marker, video marker or video host,
// animated or direct image extension, known image host, self/text. Anything
// else carrying an outbound URL defaults to video, because the generic
// extractor is the most tolerant acquisition path.
func Classify(d itemDomain.Descriptor) itemDomain.MediaKind {
	if d.IsGallery {
		return itemDomain.MediaKindGallery
	}
	if d.IsVideo {
		return itemDomain.MediaKindVideo
	}

	host, ext := hostAndExt(d.URL)
	if host == "" {
		return itemDomain.MediaKindText
	}

	switch {
	case videoHosts[host]:
		return itemDomain.MediaKindVideo
	case animatedExts[ext]:
		// Animated images go through the video pipeline so they end up as
		// silent mp4 clips the target platform can play inline.
		return itemDomain.MediaKindVideo
	case imageExts[ext]:
		return itemDomain.MediaKindImage
	case host == "imgur.com" || strings.HasSuffix(host, ".imgur.com"):
		// Extension-less imgur links default to image; the resolver scrapes
		// the direct URL off the page.
		return itemDomain.MediaKindImage
	case d.IsSelf:
		return itemDomain.MediaKindText
	}

	return itemDomain.MediaKindVideo
}

// IsDirectImageURL reports whether the URL points straight at an image file
// rather than a page that embeds one.
func IsDirectImageURL(rawURL string) bool {
	_, ext := hostAndExt(rawURL)
	return imageExts[ext]
}

// IsImgurPage reports whether the URL is an imgur page link (not a direct
// i.imgur.com file), which has a predictable direct-image counterpart.
func IsImgurPage(rawURL string) bool {
	host, ext := hostAndExt(rawURL)
	if host != "imgur.com" && !strings.HasSuffix(host, ".imgur.com") {
		return false
	}
	return host != "i.imgur.com" && ext == ""
}

func hostAndExt(rawURL string) (host, ext string) {
	if rawURL == "" {
		return "", ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	ext = strings.ToLower(path.Ext(u.Path))
	return host, ext
}
