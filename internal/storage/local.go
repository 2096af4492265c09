package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alcostack/backend/pkg/logger"
)

type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	path := filepath.Join(s.dir, filepath.Base(objectName))

	file, err := os.Create(path)
	if err != nil {
		logger.Error("local_store_create_failed", err, map[string]interface{}{
			"object_name": objectName,
		})
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		logger.Error("local_store_write_failed", err, map[string]interface{}{
			"object_name": objectName,
		})
		return err
	}

	logger.Info("local_store_saved", map[string]interface{}{
		"object_name": objectName,
		"size":        size,
	})
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, objectName string) error {
	path := filepath.Join(s.dir, filepath.Base(objectName))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		logger.Error("local_store_delete_failed", err, map[string]interface{}{
			"object_name": objectName,
		})
		return err
	}
	return nil
}

// PublicURL builds the absolute URL from the inbound request's scheme and
// host; local photos are served under /uploads.
func (s *LocalStore) PublicURL(requestBase, objectName string) string {
	return strings.TrimSuffix(requestBase, "/") + "/uploads/" + objectName
}
