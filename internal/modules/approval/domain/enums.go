//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// DecisionKind represents the verdict carried by an inbound decision event
// ENUM(approve,reject)
type DecisionKind string

// Outcome represents how a decision was resolved
// ENUM(approved,rejected,expired,media_missing,delivery_failed,store_error)
type Outcome string
