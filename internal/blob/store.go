// Package blob implements the binary artifact store used to stage and
// persist biometric image payloads. It is not a general file system: every
// object lives under a single logical namespace and is addressed by the
// path returned at write time.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Namespace is the logical prefix under which all biometric blobs are stored.
const Namespace = "biometrics"

// Store defines path-addressed byte storage with public URL resolution.
type Store interface {
	// Put writes data under the given path, creating parent directories
	// as needed.
	Put(path string, data []byte) error
	// Get reads the blob stored at path.
	Get(path string) ([]byte, error)
	// Delete removes the blob stored at path. Deleting a missing blob is
	// not an error.
	Delete(path string) error
	// URL resolves a stored path to the public URL devices can fetch.
	URL(path string) string
}

// UniquePath returns a fresh object path in the biometric namespace,
// e.g. "biometrics/3f2a….jpeg".
func UniquePath(ext string) string {
	return fmt.Sprintf("%s/%s.%s", Namespace, uuid.NewString(), ext)
}

// DiskStore is a Store backed by a local directory.
type DiskStore struct {
	// Root is the directory all paths are resolved against.
	Root string
	// BaseURL is the public base URL mapped onto Root.
	BaseURL string
}

// NewDiskStore creates a DiskStore rooted at dir, served publicly at baseURL.
func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Root: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Put(path string, data []byte) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (s *DiskStore) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *DiskStore) Delete(path string) error {
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (s *DiskStore) URL(path string) string {
	return s.BaseURL + "/" + path
}
