package domain

import (
	"context"
)

// StoreError represents an error originating from the key-value store.
type StoreError string

func (e StoreError) Error() string {
	return string(e)
}

// ErrKeyNotFound is returned when a key is not present in the store.
const ErrKeyNotFound = StoreError("store: key not found")

// KeyValueStore defines the interface (port) for durable local state.
// Implementations of this interface are the adapters (file, Redis, SQL).
type KeyValueStore interface {
	// Get retrieves the raw value stored under key.
	// It returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes key. It does not return an error if the key is absent.
	Delete(ctx context.Context, key string) error

	// Ping checks the health of the backing store.
	Ping(ctx context.Context) error
}
