package filestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

const memoryScheme = "mem://"

// Memory keeps objects in process memory. Content is lost on restart, the
// same as the rest of an unpersisted state. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, filename, _ string, r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(filename)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return memoryScheme + key, nil
}

func (m *Memory) Open(_ context.Context, url string) (io.ReadCloser, error) {
	key, ok := strings.CutPrefix(url, memoryScheme)
	if !ok {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
