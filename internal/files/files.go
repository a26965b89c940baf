// Package files is the file-copy capability: uploaded reports are copied
// into an app-managed permanent location and addressed by a URI.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Open for a location that does not exist
var ErrNotFound = errors.New("file not found")

// Store copies content to permanent storage
type Store interface {
	// Save copies r under a fresh name derived from name and returns its location and size.
	Save(ctx context.Context, name string, r io.Reader) (uri string, size int64, err error)
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
	// Delete is idempotent
	Delete(ctx context.Context, uri string) error
}

// MaxFileSize bounds a single upload
const MaxFileSize = 32 << 20

// permanentName is "<unix-millis>-<base name>"
func permanentName(now time.Time, name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}
