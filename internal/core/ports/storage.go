package ports

import (
	"context"
	"io"
)

// FileStore persists uploaded files. Put returns the object path under which
// the content was stored.
type FileStore interface {
	Put(ctx context.Context, objectPath, contentType string, size int64, content io.Reader) (string, error)
}
