package domain

import "errors"

// Resolution failure taxonomy. Every failure is terminal for the current
// pass: the caller records the item without a file so the next pass never
// re-attempts it.
var (
	// ErrNoMediaFound means the item is not media at all (self/text posts,
	// galleries with an empty media map).
	ErrNoMediaFound = errors.New("no media found")

	// ErrAllSourcesExhausted means every acquisition strategy was tried and
	// none produced a file.
	ErrAllSourcesExhausted = errors.New("all media sources exhausted")

	// ErrValidationFailed means bytes were fetched but do not decode into a
	// usable file (zero length or corrupt).
	ErrValidationFailed = errors.New("downloaded media failed validation")

	// ErrExternalToolUnavailable means a collaborator binary is missing and
	// no other strategy applied to the item.
	ErrExternalToolUnavailable = errors.New("external tool unavailable")
)
