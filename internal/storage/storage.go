// Package storage provides the S3-compatible object store that holds the
// retained clips. It exposes only the three calls the retention sync needs:
// put, list and delete.
package storage

import (
	"context"
	"time"
)

// Object is a stored object as reported by a listing.
type Object struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// ObjectStore defines the interface for the object store.
type ObjectStore interface {
	// Put writes body under key, replacing any existing object with that key.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// List returns every object under the configured prefix in listing order.
	List(ctx context.Context) ([]Object, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}
