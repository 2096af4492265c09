package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// PhotoStore abstracts where uploaded photos live. The local backend mirrors
// the app's original behavior (files under an uploads directory, served by
// the HTTP server); the MinIO backend keeps them in a bucket behind a public
// endpoint.
type PhotoStore interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	PublicURL(requestBase, objectName string) string
}

// ObjectName derives a stored name from the uploaded filename: first ten
// characters of the base name (spaces replaced), a timestamp, and the
// original extension. A concurrent upload with the same derived name
// overwrites; that matches the original collision behavior.
func ObjectName(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = strings.ReplaceAll(base, " ", "-")
	if len(base) > 10 {
		base = base[:10]
	}
	return base + time.Now().Format("060102150405.000") + ext
}
