package domain

import (
	"testing"

	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		desc itemDomain.Descriptor
		want itemDomain.MediaKind
	}{
		{
			name: "gallery marker wins over everything",
			desc: itemDomain.Descriptor{IsGallery: true, IsVideo: true, URL: "https://i.redd.it/a.jpg"},
			want: itemDomain.MediaKindGallery,
		},
		{
			name: "native video marker",
			desc: itemDomain.Descriptor{IsVideo: true, URL: "https://v.redd.it/abc123"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "video host without marker",
			desc: itemDomain.Descriptor{URL: "https://redgifs.com/watch/something"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "video host with www prefix",
			desc: itemDomain.Descriptor{URL: "https://www.streamable.com/xyz"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "gif goes through the video pipeline",
			desc: itemDomain.Descriptor{URL: "https://i.imgur.com/funny.gif"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "gifv goes through the video pipeline",
			desc: itemDomain.Descriptor{URL: "https://i.imgur.com/funny.gifv"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "direct jpg",
			desc: itemDomain.Descriptor{URL: "https://i.redd.it/photo.jpg"},
			want: itemDomain.MediaKindImage,
		},
		{
			name: "direct png with query string",
			desc: itemDomain.Descriptor{URL: "https://example.com/pic.png?width=640&s=abc"},
			want: itemDomain.MediaKindImage,
		},
		{
			name: "direct webp",
			desc: itemDomain.Descriptor{URL: "https://cdn.example.com/pic.webp"},
			want: itemDomain.MediaKindImage,
		},
		{
			name: "extension-less imgur page defaults to image",
			desc: itemDomain.Descriptor{URL: "https://imgur.com/gallery/abc"},
			want: itemDomain.MediaKindImage,
		},
		{
			name: "imgur subdomain defaults to image",
			desc: itemDomain.Descriptor{URL: "https://m.imgur.com/abc"},
			want: itemDomain.MediaKindImage,
		},
		{
			name: "self post is text",
			desc: itemDomain.Descriptor{IsSelf: true, URL: "https://www.reddit.com/r/pics/comments/abc/title/"},
			want: itemDomain.MediaKindText,
		},
		{
			name: "missing URL is text",
			desc: itemDomain.Descriptor{},
			want: itemDomain.MediaKindText,
		},
		{
			name: "unknown host with URL defaults to video",
			desc: itemDomain.Descriptor{URL: "https://www.youtube.com/watch?v=abc"},
			want: itemDomain.MediaKindVideo,
		},
		{
			name: "unparseable URL is text",
			desc: itemDomain.Descriptor{URL: "::not a url::"},
			want: itemDomain.MediaKindText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.desc)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}
