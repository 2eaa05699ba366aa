package cache

import (
	"context"
	"time"
)

// Store is a small key-value cache with expiration
type Store interface {
	// Get returns the value of key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores key with an expiration
	Set(ctx context.Context, key, value string, expiration time.Duration) error

	// SetNX stores key only when it is absent and reports whether it did
	SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error)

	// Delete removes key
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
