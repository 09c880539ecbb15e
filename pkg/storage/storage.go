package storage

import (
	"context"
	"io"
)

// Storage persists raw document bytes under opaque keys. Metadata lives in
// the profile store; this interface only moves blobs.
type Storage interface {
	// Save writes the content under the given key, overwriting any previous
	// object.
	Save(ctx context.Context, key, contentType string, content io.Reader) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under the key.
	Exists(ctx context.Context, key string) bool

	// URL returns the public URL for a stored object, or an empty string
	// when the backend has no public base configured.
	URL(key string) string
}
