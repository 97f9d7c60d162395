package objectstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned (wrapped) by GetObject when the requested key does
// not exist in the bucket.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the bucket abstraction the evaluation pipeline reads
// transcripts from and writes metric partitions to. A client is constructed
// once per run and passed by reference; there is no package-level singleton.
type ObjectStore interface {
	// GetObject downloads the object at key.
	GetObject(ctx context.Context, key string) ([]byte, error)
	// PutObject uploads data to key, overwriting any existing object.
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	// RemoveObject deletes the object at key. Deleting a missing key is not
	// an error.
	RemoveObject(ctx context.Context, key string) error
	// ObjectExists reports whether an object exists at key.
	ObjectExists(ctx context.Context, key string) (bool, error)
}
