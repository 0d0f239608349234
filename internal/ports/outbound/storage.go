// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for an unknown key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is local persistent key/value storage. Values are UTF-8 JSON text.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
