package domain

import "time"

// Item represents one discovered content unit from a source feed.
// The identifying tuple (ID, Source, Title, URL, Author, CreatedAt,
// Permalink) is immutable after registration; only MediaKind, FilePath
// and Status may change.
type Item struct {
	ID           string
	Source       string
	Title        string
	URL          string
	Author       string
	CreatedAt    time.Time
	Permalink    string
	MediaKind    MediaKind
	FilePath     string
	DiscoveredAt time.Time
	Status       ItemStatus
}

// Descriptor carries everything the listing returns about a candidate
// item, with enough signals to classify its media kind without a second
// round trip.
type Descriptor struct {
	ID          string
	Source      string
	Title       string
	URL         string
	Author      string
	CreatedAt   time.Time
	Permalink   string
	IsSelf      bool
	IsVideo     bool
	IsGallery   bool
	DashURL     string
	GalleryURLs []string
}
