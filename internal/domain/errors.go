package domain

import "errors"

var (
	// ErrContentNotFound is returned when a content item id resolves to
	// no persisted row.
	ErrContentNotFound = errors.New("content item not found")

	// ErrCredentialNotFound is returned when no publishing credential is
	// known for a target page.
	ErrCredentialNotFound = errors.New("page credential not found")

	// ErrTemplateNotFound is returned when a comment template id
	// resolves to no stored template.
	ErrTemplateNotFound = errors.New("comment template not found")

	// ErrNoTargets rejects an item from dispatch before any provider
	// call is made.
	ErrNoTargets = errors.New("content item has no target pages")
)
