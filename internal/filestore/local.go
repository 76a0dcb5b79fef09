package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const localScheme = "local://"

// Local writes objects as files under a root directory. URLs are built on
// baseURL when one is configured so a static file server can expose them.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates root if needed.
func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", root, err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, filename, _ string, r io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(filename)
	dst := filepath.Join(l.root, key)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && size >= 0 && n != size {
		err = fmt.Errorf("size mismatch: expected %d bytes, got %d", size, n)
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return l.url(key), nil
}

func (l *Local) Open(_ context.Context, url string) (io.ReadCloser, error) {
	key, ok := l.key(url)
	if !ok {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	f, err := os.Open(filepath.Join(l.root, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	return f, nil
}

func (l *Local) url(key string) string {
	if l.baseURL != "" {
		return l.baseURL + "/" + key
	}
	return localScheme + key
}

// key extracts the object key from a URL this store issued. Keys never
// contain path separators.
func (l *Local) key(url string) (string, bool) {
	prefix := localScheme
	if l.baseURL != "" {
		prefix = l.baseURL + "/"
	}
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", false
	}
	return key, true
}
