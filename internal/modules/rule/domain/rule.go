package domain

import "time"

// Frequency bounds for rule checks, in hours.
const (
	MinFrequencyHours = 1
	MaxFrequencyHours = 168
)

// Rule is a standing instruction to watch one source on behalf of one
// owner. Rules are unique per (owner, source, sort mode, target channel);
// re-adding the same combination overwrites the previous rule.
type Rule struct {
	ID             int64
	OwnerID        int64
	Source         string
	SortMode       SortMode
	TimeWindow     TimeWindow
	FrequencyHours int
	TargetChannel  string
	IsActive       bool
	CreatedAt      time.Time
	LastCheckedAt  time.Time
}

// Due reports whether the rule should be checked at the given instant.
// A rule that has never been checked is always due.
func (r Rule) Due(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.LastCheckedAt.IsZero() {
		return true
	}
	return !now.Before(r.LastCheckedAt.Add(time.Duration(r.FrequencyHours) * time.Hour))
}

// ValidFrequency reports whether an hourly check frequency is inside the
// allowed 1..168 range.
func ValidFrequency(hours int) bool {
	return hours >= MinFrequencyHours && hours <= MaxFrequencyHours
}
