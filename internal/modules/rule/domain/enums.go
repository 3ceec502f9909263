//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// SortMode represents the listing order requested from the content source
// ENUM(hot,new,top,rising)
type SortMode string

// TimeWindow narrows a top-sorted listing to a recency bucket
// ENUM(hour,day,week,month,year,all)
type TimeWindow string
