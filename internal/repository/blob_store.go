package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a BlobStore when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// BlobStore is a key-value store holding opaque values. The roster keeps
// its entire contents under a single key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
