// Package cache holds pending jumps: locators requested for a document
// whose viewer is not ready yet, keyed by every variant of the document's
// reference so the viewer can find them whatever spelling it reports.
package cache

import (
	"errors"
	"time"

	"docnav/internal/locator"
)

// Jump is one pending navigation. The same Jump is stored under several
// keys; deleting it by ID removes all of them.
type Jump struct {
	ID        string          `json:"id"`
	Locator   locator.Locator `json:"locator"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Predefined errors returned by stores.
var (
	ErrClosed     = errors.New("cache: store closed")
	ErrInvalidKey = errors.New("cache: empty key")
)

// Store is the key-value backend behind PendingJumps. Implementations need
// not be safe for concurrent use; PendingJumps serializes access.
type Store interface {
	// Put stores jump under every key, replacing whatever each key held.
	Put(keys []string, jump Jump) error

	// Get returns the jump stored under key.
	Get(key string) (Jump, bool, error)

	// Delete removes a jump and every key pointing at it.
	Delete(id string) error

	// DeleteBefore removes every jump created before t and returns how many
	// were removed.
	DeleteBefore(t time.Time) (int, error)

	// Len returns the number of live jumps.
	Len() (int, error)

	Close() error
}
