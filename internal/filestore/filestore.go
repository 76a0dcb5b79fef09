// Package filestore stores uploaded resource files and serves them back by
// the URL they were stored under.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("object not found")

// Store is the upload/download boundary for resource files. Put accepts
// content plus metadata and returns a durable URL; Open takes that URL back
// and returns the content.
type Store interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Config selects and configures a Store.
type Config struct {
	Type      string // memory, local or s3
	LocalRoot string
	PublicURL string

	S3 S3Config
}

// New builds the Store named by cfg.Type.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(), nil
	case "local":
		if cfg.LocalRoot == "" {
			return nil, fmt.Errorf("local storage requires STORAGE_LOCAL_ROOT to be set")
		}
		return NewLocal(cfg.LocalRoot, cfg.PublicURL)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// objectKey gives an upload a collision-free name that keeps the original
// extension.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return uuid.New().String() + ext
}
