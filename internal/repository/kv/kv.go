// Package kv provides the device-local key-value surface the equipment cache
// is persisted to.
package kv

import "context"

// Store is a persistent key-value surface. Get returns (nil, nil) for a key
// that was never written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
