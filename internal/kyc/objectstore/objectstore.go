// Package objectstore persists document payloads. The workflow only keeps a
// storage key on the Document record; the bytes live here.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store is the payload blob interface.
type Store interface {
	Put(ctx context.Context, key, contentType string, payload io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StorageKey derives a unique object key from an uploaded file name,
// preserving the extension.
func StorageKey(originalName string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New(), filepath.Ext(originalName))
}
