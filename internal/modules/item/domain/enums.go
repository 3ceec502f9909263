//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// MediaKind represents the classified media type of an item
// ENUM(image,video,gallery,text)
type MediaKind string

// ItemStatus represents the lifecycle state of a discovered item
// ENUM(pending,approved,rejected)
type ItemStatus string
