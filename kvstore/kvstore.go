// Package kvstore provides simple key-value blob stores. A store serialises
// single reads and writes but offers no read-modify-write transactions.
package kvstore

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close
var ErrClosed = errors.New("store closed")

// Store is a key-value store of opaque blobs
type Store interface {
	// Get returns the value stored under key, found is false when no
	// value has ever been set
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// ClosableStore is a Store holding resources which must be released
type ClosableStore interface {
	Store

	Close() error
}
