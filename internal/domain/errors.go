package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks caller input that fails validation. Surfaced
	// immediately, never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoHistory marks a user with no stored vectors. Expected, surfaced as
	// not-found rather than a failure.
	ErrNoHistory = errors.New("user has no history")

	// ErrStoreUnavailable marks an unreachable or misconfigured backing
	// store. Fatal for the current request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreUnavailable wraps a transport or driver error as a fatal store outage,
// keeping the store name and the underlying cause in the message.
func StoreUnavailable(store string, err error) error {
	return fmt.Errorf("%s %w: %v", store, ErrStoreUnavailable, err)
}
