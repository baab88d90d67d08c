// Package storage uploads resume files to object storage and hands back a
// retrievable URL. The tracker itself never keeps the binary; only the URL
// ends up on the application record.
package storage

import (
	"context"
	"io"
)

// Interface is the minimal contract the upload handler needs.
type Interface interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object at key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
