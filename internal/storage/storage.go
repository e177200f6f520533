package storage

import (
	"context"
	"io"
)

// Uploader archives raw audio uploads. Archival is optional and best-effort;
// analysis never blocks on it.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
