package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("telegram_bot_token is required")

	// ErrExpiredDecision marks a decision whose handle no longer matches a
	// pending approval. Always a benign no-op.
	ErrExpiredDecision = errors.New("decision handle expired or unknown")

	ErrRuleNotFound = errors.New("rule not found")
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidRule marks a rule that failed business validation before it
	// reached the store, such as an out-of-range check frequency.
	ErrInvalidRule = errors.New("invalid forwarding rule")
)
