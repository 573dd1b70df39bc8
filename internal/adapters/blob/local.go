package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes blobs under a directory served as static files. Used
// when no S3 bucket is configured.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a LocalStore rooted at dir, returning URLs under baseURL.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload writes the file to <dir>/<folder>/<filename>.
func (s *LocalStore) Upload(_ context.Context, folder, filename, _ string, data []byte) (string, error) {
	fullPath := filepath.Join(s.dir, folder, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o640); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return s.baseURL + "/" + folder + "/" + filename, nil
}
