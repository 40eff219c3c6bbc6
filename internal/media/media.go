// Package media stores uploaded images in an external object store and
// returns public URLs plus opaque keys for later deletion.
package media

import (
	"context"
	"io"
)

// UploadResult holds the public URL of a stored object and the key
// needed to delete it later.
type UploadResult struct {
	URL string
	Key string
}

// Store is the interface for image storage backends.
type Store interface {
	// Upload stores the content and returns its public URL and deletion key.
	Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error)
	// Delete removes a previously uploaded object by its key.
	Delete(ctx context.Context, key string) error
}
