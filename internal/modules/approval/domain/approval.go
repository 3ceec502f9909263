package domain

import "time"

// PendingApproval binds one delivered-for-approval item to the rule that
// produced it and the owner expected to decide. The delivery handle is
// the only lookup key used when a decision arrives; deleting the row is
// what makes decisions idempotent.
type PendingApproval struct {
	ID             int64
	ItemID         string
	OwnerID        int64
	RuleID         int64
	DeliveryHandle string
	CreatedAt      time.Time

	// Joined context needed to act on a decision without extra lookups.
	ItemTitle     string
	ItemFilePath  string
	ItemSource    string
	ItemPermalink string
	TargetChannel string
}

// ApprovedRecord is the append-only audit trail of a forwarding action.
type ApprovedRecord struct {
	ID              int64
	ItemID          string
	OwnerID         int64
	RuleID          int64
	TargetChannel   string
	ForwardedHandle string
	ApprovedAt      time.Time

	// Joined for the audit feed.
	ItemTitle     string
	ItemSource    string
	ItemPermalink string
}

// Decision is an inbound approve/reject event correlated by delivery handle.
type Decision struct {
	Handle  string
	Kind    DecisionKind
	ActorID int64
}

// Resolution is the result of applying a decision.
type Resolution struct {
	Outcome Outcome
	Detail  string
}

// Stats summarizes store contents for operator commands.
type Stats struct {
	TotalItems     int
	PendingItems   int
	ApprovedItems  int
	RejectedItems  int
	PendingReviews int
	ActiveRules    int
}
